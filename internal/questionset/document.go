package questionset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/7283111011/FLK2/internal/quiz"
)

// Document is the on-disk shape of a question set.
type Document struct {
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []Record `json:"questions" yaml:"questions"`
}

// Record is one question as written by authors.
type Record struct {
	Number      Label      `json:"number,omitempty" yaml:"number,omitempty"`
	Question    string     `json:"question" yaml:"question"`
	Options     OptionList `json:"options" yaml:"options"`
	Answer      string     `json:"answer" yaml:"answer"`
	Explanation string     `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Label is a display number that may be written as an integer or a string.
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*l = Label(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("number must be a string or integer: %w", err)
	}
	*l = Label(number.String())
	return nil
}

func (l *Label) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: number must be a scalar", node.Line)
	}
	*l = Label(node.Value)
	return nil
}

// OptionList keeps options in document order. It decodes either a mapping
// of letter to text or a list of {letter, text} objects.
type OptionList []quiz.Option

type optionEntry struct {
	Letter string `json:"letter" yaml:"letter"`
	Text   string `json:"text" yaml:"text"`
}

func (o *OptionList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	switch data[0] {
	case '[':
		var entries []optionEntry
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&entries); err != nil {
			return fmt.Errorf("options: %w", err)
		}
		*o = fromEntries(entries)
		return nil
	case '{':
		options, err := decodeOrderedObject(data)
		if err != nil {
			return fmt.Errorf("options: %w", err)
		}
		*o = options
		return nil
	default:
		return fmt.Errorf("options must be an object or a list")
	}
}

// decodeOrderedObject walks the object token by token; map decoding would
// lose the author's option order.
func decodeOrderedObject(data []byte) (OptionList, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	var options OptionList
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", token)
		}
		var text string
		if err := decoder.Decode(&text); err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		options = append(options, quiz.Option{Letter: key, Text: text})
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	return options, nil
}

func (o *OptionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		options := make(OptionList, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			var text string
			if err := value.Decode(&text); err != nil {
				return fmt.Errorf("line %d: option %q: %w", value.Line, key.Value, err)
			}
			options = append(options, quiz.Option{Letter: key.Value, Text: text})
		}
		*o = options
		return nil
	case yaml.SequenceNode:
		var entries []optionEntry
		if err := node.Decode(&entries); err != nil {
			return err
		}
		*o = fromEntries(entries)
		return nil
	default:
		return fmt.Errorf("line %d: options must be a mapping or a list", node.Line)
	}
}

func fromEntries(entries []optionEntry) OptionList {
	options := make(OptionList, 0, len(entries))
	for _, entry := range entries {
		options = append(options, quiz.Option{Letter: entry.Letter, Text: entry.Text})
	}
	return options
}
