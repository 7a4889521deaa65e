package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/metasql/metasql/internal/model"
)

// LoadMode controls how errors are handled during model loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the models loaded from a definitions directory.
type LoadResult struct {
	// Models maps model id to the decoded query model, ids sorted in Names.
	Models map[string]*model.QueryModel

	// Names are the model ids in sorted order.
	Names []string

	// FileCount is the number of CUE files found.
	FileCount int
}

// LoadError represents an error that occurred during model loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// cueModel is the CUE-facing layout of one model definition, decoded
// from `model: <id>: {...}` entries.
type cueModel struct {
	Distinct   bool           `json:"distinct"`
	Selections []cueSelection `json:"selections"`
	Tables     []cueTable     `json:"tables"`
	Joins      []cueJoin      `json:"joins"`
	Where      []string       `json:"where"`
	GroupBy    []string       `json:"groupBy"`
	OrderBy    []string       `json:"orderBy"`
}

type cueSelection struct {
	Expression string `json:"expression"`
	Alias      string `json:"alias"`
}

type cueTable struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

type cueJoin struct {
	Left      cueTable `json:"left"`
	Right     cueTable `json:"right"`
	Predicate string   `json:"predicate"`
	OrderKey  string   `json:"orderKey"`
	Type      string   `json:"type"`
}

// cueJoinTypes maps the CUE spelling of a join type to the model value.
var cueJoinTypes = map[string]model.JoinType{
	"":            model.JoinInner,
	"inner":       model.JoinInner,
	"left_outer":  model.JoinLeftOuter,
	"right_outer": model.JoinRightOuter,
	"full_outer":  model.JoinFullOuter,
}

// LoadModels loads query model definitions from the CUE files in dir.
// Definitions live under the top-level `model` struct, one field per
// model id. If mode is LoadModeFailFast, returns on the first error;
// if LoadModeCollectAll, collects all errors.
func LoadModels(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("models directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing models directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		Models:    map[string]*model.QueryModel{},
		FileCount: len(cueFiles),
	}
	var errs []error

	modelsVal := value.LookupPath(cue.ParsePath("model"))
	if !modelsVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeNoFiles, Message: "no top-level \"model\" definitions found"}}
	}

	iter, iterErr := modelsVal.Fields()
	if iterErr != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating models: %v", iterErr)}}
	}
	for iter.Next() {
		id := iter.Label()
		m, decodeErr := decodeModel(iter.Value())
		if decodeErr != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeBuildFailed,
				Message: fmt.Sprintf("model %q: %v", id, decodeErr),
				Pos:     iter.Value().Pos(),
			})
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Models[id] = m
		result.Names = append(result.Names, id)
	}
	sort.Strings(result.Names)

	return result, errs
}

// decodeModel converts one CUE model definition to a QueryModel.
func decodeModel(v cue.Value) (*model.QueryModel, error) {
	var cm cueModel
	if err := v.Decode(&cm); err != nil {
		return nil, err
	}

	m := &model.QueryModel{
		Distinct: cm.Distinct,
		Where:    cm.Where,
		GroupBy:  cm.GroupBy,
		OrderBy:  cm.OrderBy,
	}
	for _, s := range cm.Selections {
		m.Selections = append(m.Selections, model.Selection{Expression: s.Expression, Alias: s.Alias})
	}
	for _, t := range cm.Tables {
		m.Tables = append(m.Tables, model.TableRef{Name: t.Name, Alias: t.Alias})
	}
	for _, j := range cm.Joins {
		jt, ok := cueJoinTypes[j.Type]
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

// FindCUEFiles returns the .cue files directly inside dir.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cue") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
