package termsource

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ZaguanLabs/codelai"
	"gopkg.in/yaml.v3"
)

// FileSource reads terms from a YAML or JSON file. The file is re-read on
// every call, so invalidating the dictionary picks up edits.
//
// Three layouts are accepted:
//
//	- term: fetch                # a list of records
//	  translation: obtener
//
//	terms:                       # the same list under a "terms" key
//	  - term: fetch
//	    translation: obtener
//
//	fetch: obtener               # a plain term -> translation mapping
type FileSource struct {
	path string
}

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Terms reads and decodes the file.
func (s *FileSource) Terms(ctx context.Context) ([]codelai.TermRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &codelai.SourceError{
			Source:  "file",
			Message: fmt.Sprintf("reading %s", s.path),
			Cause:   err,
			// A missing file stays missing.
			Retryable: !errors.Is(err, os.ErrNotExist) && !errors.Is(err, os.ErrPermission),
		}
	}

	records, err := ParseTerms(data)
	if err != nil {
		return nil, &codelai.SourceError{
			Source:  "file",
			Message: fmt.Sprintf("decoding %s", s.path),
			Cause:   err,
		}
	}
	return records, nil
}

// ParseTerms decodes a YAML or JSON term document in any accepted layout.
func ParseTerms(data []byte) ([]codelai.TermRecord, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return []codelai.TermRecord{}, nil
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		return decodeRecords(node)
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "terms" && node.Content[i+1].Kind == yaml.SequenceNode {
				return decodeRecords(node.Content[i+1])
			}
		}
		return decodePairs(node)
	default:
		return nil, fmt.Errorf("line %d: expected a list or mapping of terms", node.Line)
	}
}

func decodeRecords(node *yaml.Node) ([]codelai.TermRecord, error) {
	records := make([]codelai.TermRecord, 0, len(node.Content))
	for _, item := range node.Content {
		var rec codelai.TermRecord
		if err := item.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodePairs keeps mapping order, which yaml.Node preserves.
func decodePairs(node *yaml.Node) ([]codelai.TermRecord, error) {
	records := make([]codelai.TermRecord, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: expected term: translation", key.Line)
		}
		records = append(records, codelai.TermRecord{Term: key.Value, Translation: value.Value})
	}
	return records, nil
}
