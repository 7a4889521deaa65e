package repository

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/metasql/metasql/internal/model"
)

// docFile is the on-disk YAML layout of a document.
type docFile struct {
	ID       string               `yaml:"id"`
	Revision string               `yaml:"revision"`
	Models   map[string]modelFile `yaml:"models"`
}

// modelFile is the on-disk YAML layout of one named query model.
type modelFile struct {
	Fingerprint string          `yaml:"fingerprint,omitempty"`
	Distinct    bool            `yaml:"distinct,omitempty"`
	Selections  []selectionFile `yaml:"selections"`
	Tables      []tableFile     `yaml:"tables"`
	Joins       []joinFile      `yaml:"joins,omitempty"`
	Where       []string        `yaml:"where,omitempty"`
	GroupBy     []string        `yaml:"group_by,omitempty"`
	OrderBy     []string        `yaml:"order_by,omitempty"`
}

type selectionFile struct {
	Expression string `yaml:"expression"`
	Alias      string `yaml:"alias,omitempty"`
}

type tableFile struct {
	Name  string `yaml:"name"`
	Alias string `yaml:"alias,omitempty"`
}

type joinFile struct {
	Left      tableFile `yaml:"left"`
	Right     tableFile `yaml:"right"`
	Predicate string    `yaml:"predicate"`
	OrderKey  string    `yaml:"order_key,omitempty"`
	Type      string    `yaml:"type,omitempty"`
}

// joinTypeNames maps the on-disk join type spelling to the model value.
var joinTypeNames = map[string]model.JoinType{
	"":            model.JoinInner,
	"inner":       model.JoinInner,
	"left_outer":  model.JoinLeftOuter,
	"right_outer": model.JoinRightOuter,
	"full_outer":  model.JoinFullOuter,
}

func joinTypeName(t model.JoinType) string {
	switch t {
	case model.JoinLeftOuter:
		return "left_outer"
	case model.JoinRightOuter:
		return "right_outer"
	case model.JoinFullOuter:
		return "full_outer"
	default:
		return "inner"
	}
}

// encodeDocument serializes a document, computing each model's
// fingerprint at the serialization boundary.
func encodeDocument(doc *Document) ([]byte, error) {
	out := docFile{
		ID:       doc.ID,
		Revision: doc.Revision,
		Models:   make(map[string]modelFile, len(doc.Models)),
	}
	for name, m := range doc.Models {
		fp, err := model.Fingerprint(m)
		if err != nil {
			return nil, fmt.Errorf("encode document %q: model %q: %w", doc.ID, name, err)
		}
		out.Models[name] = toModelFile(m, fp)
	}
	return yaml.Marshal(&out)
}

// decodeDocument parses a document file. Unknown fields are rejected
// to catch typos in hand-edited files.
func decodeDocument(data []byte) (*Document, error) {
	var in docFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // reject typos in hand-edited files
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &Document{
		ID:       in.ID,
		Revision: in.Revision,
		Models:   make(map[string]*model.QueryModel, len(in.Models)),
	}
	for name, mf := range in.Models {
		m, err := fromModelFile(mf)
		if err != nil {
			return nil, fmt.Errorf("decode document %q: model %q: %w", in.ID, name, err)
		}
		doc.Models[name] = m
	}
	return doc, nil
}

func toModelFile(m *model.QueryModel, fingerprint string) modelFile {
	mf := modelFile{
		Fingerprint: fingerprint,
		Distinct:    m.Distinct,
		Where:       m.Where,
		GroupBy:     m.GroupBy,
		OrderBy:     m.OrderBy,
	}
	for _, s := range m.Selections {
		mf.Selections = append(mf.Selections, selectionFile{Expression: s.Expression, Alias: s.Alias})
	}
	for _, t := range m.Tables {
		mf.Tables = append(mf.Tables, tableFile{Name: t.Name, Alias: t.Alias})
	}
	for _, j := range m.Joins {
		mf.Joins = append(mf.Joins, joinFile{
			Left:      tableFile{Name: j.Left.Name, Alias: j.Left.Alias},
			Right:     tableFile{Name: j.Right.Name, Alias: j.Right.Alias},
			Predicate: j.Predicate,
			OrderKey:  j.OrderKey,
			Type:      joinTypeName(j.Type),
		})
	}
	return mf
}

func fromModelFile(mf modelFile) (*model.QueryModel, error) {
	m := &model.QueryModel{
		Distinct: mf.Distinct,
		Where:    mf.Where,
		GroupBy:  mf.GroupBy,
		OrderBy:  mf.OrderBy,
	}
	for _, s := range mf.Selections {
		m.Selections = append(m.Selections, model.Selection{Expression: s.Expression, Alias: s.Alias})
	}
	for _, t := range mf.Tables {
		m.Tables = append(m.Tables, model.TableRef{Name: t.Name, Alias: t.Alias})
	}
	for _, j := range mf.Joins {
		jt, ok := joinTypeNames[j.Type]
		if !ok {
			return nil, fmt.Errorf("unknown join type %q", j.Type)
		}
		m.Joins = append(m.Joins, model.JoinEdge{
			Left:      model.TableRef{Name: j.Left.Name, Alias: j.Left.Alias},
			Right:     model.TableRef{Name: j.Right.Name, Alias: j.Right.Alias},
			Predicate: j.Predicate,
			OrderKey:  j.OrderKey,
			Type:      jt,
		})
	}
	return m, nil
}
