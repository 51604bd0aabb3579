package gcm

import (
	"testing"

	"github.com/modularity/gcm/pkg/edgelist"
	"github.com/modularity/gcm/pkg/errors"
)

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "graph.txt"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}

	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Chi != DefaultChi {
		t.Errorf("Chi = %g, want %g", opts.Chi, DefaultChi)
	}
	if opts.Sep != edgelist.SepSpace {
		t.Errorf("Sep = %v, want space", opts.Sep)
	}
	if opts.OutputFile != DefaultOutputFile {
		t.Errorf("OutputFile = %q, want %q", opts.OutputFile, DefaultOutputFile)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsValidateIdempotent(t *testing.T) {
	opts := Options{Input: "graph.txt", Seed: 7}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Seed != 7 {
		t.Errorf("Seed = %d, want 7", opts.Seed)
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{
			name: "missing input",
			opts: Options{},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "bad separator",
			opts: Options{Input: "graph.txt", Sep: "tab"},
			code: errors.ErrCodeInvalidSeparator,
		},
		{
			name: "output file with path",
			opts: Options{Input: "graph.txt", OutputFile: "dir/out.txt"},
			code: errors.ErrCodeInvalidPath,
		},
		{
			name: "negative timeout",
			opts: Options{Input: "graph.txt", Timeout: -1},
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}
