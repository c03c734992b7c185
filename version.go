package codelai

// Version information for codelai.
// These values can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/ZaguanLabs/codelai.GitCommit=$(git rev-parse HEAD)"
const (
	// Name is the application name.
	Name = "codelai"

	// Description is a short description of the application.
	Description = "Dictionary-driven translation of the text inside source code"

	// Version is the semantic version of the application.
	Version = "0.1.0"

	// Repository is the source code repository URL.
	Repository = "https://github.com/ZaguanLabs/codelai"
)

// Build information, set via ldflags.
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// FullVersion returns the version string with the short commit appended when known.
func FullVersion() string {
	v := Version
	if GitCommit != "unknown" && GitCommit != "" {
		short := GitCommit
		if len(short) > 7 {
			short = short[:7]
		}
		v += "+" + short
	}
	return v
}

// UserAgent returns the identifier sent in HTTP Server headers.
func UserAgent() string {
	return Name + "/" + FullVersion()
}
