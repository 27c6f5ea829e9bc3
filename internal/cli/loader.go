package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/purestate/internal/compiler"
	"github.com/roach88/purestate/internal/ir"
	"github.com/roach88/purestate/internal/qasm"
)

// LoadMode controls how errors are handled during circuit loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the circuits found at a path.
type LoadResult struct {
	Circuits  []*ir.CircuitSpec
	FileCount int // Number of source files read
}

// LoadError represents an error that occurred during circuit loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Line    int       // QASM line if available
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeQASM        = "E008" // QASM parse error
	ErrCodeStore       = "E009" // Decision log error
	ErrCodeVerify      = "E010" // Simulated output differs from input
)

// LoadInput loads circuits from a .qasm file, a .cue file, or a directory
// of CUE files.
func LoadInput(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("input not found: %s", path)}}
	}
	if info.IsDir() {
		return LoadCircuits(path, mode)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".qasm":
		return loadQASM(path)
	case ".cue":
		return loadCUEFile(path, mode)
	}
	return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("unsupported input %s: want .qasm, .cue or a directory", path)}}
}

func loadQASM(path string) (*LoadResult, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: err.Error()}}
	}
	spec, err := qasm.Parse(string(data))
	if err != nil {
		le := &LoadError{Code: ErrCodeQASM, Message: err.Error()}
		var pe *qasm.ParseError
		if errors.As(err, &pe) {
			le.Message = pe.Msg
			le.Line = pe.Line
		}
		return nil, []error{le}
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &LoadResult{Circuits: []*ir.CircuitSpec{spec}, FileCount: 1}, nil
}

func loadCUEFile(path string, mode LoadMode) (*LoadResult, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: err.Error()}}
	}
	value := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}
	result := &LoadResult{FileCount: 1}
	return result, collectCircuits(value, result, mode)
}

// LoadCircuits loads every circuit.* value from the CUE package in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadCircuits(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("circuits directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing circuits directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
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

	result := &LoadResult{FileCount: len(cueFiles)}
	return result, collectCircuits(value, result, mode)
}

// collectCircuits compiles each circuit.* field into result.
func collectCircuits(value cue.Value, result *LoadResult, mode LoadMode) []error {
	var errs []error

	circuitsVal := value.LookupPath(cue.ParsePath("circuit"))
	if circuitsVal.Exists() {
		iter, iterErr := circuitsVal.Fields()
		if iterErr != nil {
			return []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating circuits: %v", iterErr)}}
		}
		for iter.Next() {
			spec, compileErr := compiler.CompileCircuit(iter.Value())
			if compileErr != nil {
				errs = append(errs, convertCompileError(compileErr, "circuit."+iter.Selector().String()))
				if mode == LoadModeFailFast {
					return errs
				}
				continue
			}
			result.Circuits = append(result.Circuits, spec)
		}
	}

	if len(result.Circuits) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no circuits found"})
	}
	return errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeGeneric,
			Message: fmt.Sprintf("%s: %s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}
