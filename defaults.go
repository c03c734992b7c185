package codelai

// DefaultVocabulary is the built-in English→Spanish vocabulary that fills keys
// missing from the term collection.
var DefaultVocabulary = []TermRecord{
	{Term: "hello", Translation: "hola"},
	{Term: "world", Translation: "mundo"},
	{Term: "welcome", Translation: "bienvenido"},
	{Term: "fetch", Translation: "obtener"},
	{Term: "user", Translation: "usuario"},
	{Term: "users", Translation: "usuarios"},
	{Term: "data", Translation: "datos"},
	{Term: "database", Translation: "base de datos", Aliases: []string{"db"}},
	{Term: "save", Translation: "guardar"},
	{Term: "delete", Translation: "eliminar", Aliases: []string{"remove"}},
	{Term: "update", Translation: "actualizar"},
	{Term: "create", Translation: "crear"},
	{Term: "load", Translation: "cargar"},
	{Term: "loading", Translation: "cargando"},
	{Term: "submit", Translation: "enviar", Aliases: []string{"send"}},
	{Term: "cancel", Translation: "cancelar"},
	{Term: "search", Translation: "buscar"},
	{Term: "settings", Translation: "configuración"},
	{Term: "name", Translation: "nombre"},
	{Term: "password", Translation: "contraseña"},
	{Term: "email", Translation: "correo electrónico", Aliases: []string{"e-mail"}},
	{Term: "message", Translation: "mensaje"},
	{Term: "file", Translation: "archivo"},
	{Term: "list", Translation: "lista"},
	{Term: "error", Translation: "error"},
	{Term: "not found", Translation: "no encontrado"},
	{Term: "log in", Translation: "iniciar sesión", Aliases: []string{"login", "sign in"}},
	{Term: "log out", Translation: "cerrar sesión", Aliases: []string{"logout", "sign out"}},
	{Term: "sign up", Translation: "registrarse"},
	{Term: "state", Translation: "estado"},
	{Term: "value", Translation: "valor"},
	{Term: "page", Translation: "página"},
	{Term: "item", Translation: "elemento"},
	{Term: "items", Translation: "elementos"},
}
