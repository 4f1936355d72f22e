package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/james-see/chords2maschine/pkg/chordset"
)

// countingReader records whether the prompt consumed any input
type countingReader struct {
	r     io.Reader
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func setForce(t *testing.T, v bool) {
	t.Helper()
	old := force
	force = v
	t.Cleanup(func() { force = old })
}

func TestConfirmOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "user_chord_set_01.json")
	if err := os.WriteFile(existing, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		answer    string
		force     bool
		want      error
		wantReads bool
	}{
		{"declined", existing, "n\n", false, chordset.ErrCancelled, true},
		{"empty answer declines", existing, "\n", false, chordset.ErrCancelled, true},
		{"accepted", existing, "y\n", false, nil, true},
		{"accepted uppercase", existing, " Y \n", false, nil, true},
		{"forced", existing, "n\n", true, nil, false},
		{"missing file", filepath.Join(dir, "new.json"), "n\n", false, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setForce(t, tt.force)
			in := &countingReader{r: strings.NewReader(tt.answer)}

			err := confirmOverwrite(tt.path, in)
			if !errors.Is(err, tt.want) {
				t.Errorf("confirmOverwrite() = %v, want %v", err, tt.want)
			}
			if got := in.reads > 0; got != tt.wantReads {
				t.Errorf("read input = %v, want %v", got, tt.wantReads)
			}
		})
	}
}

func TestCancelled(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{chordset.ErrCancelled, true},
		{fmt.Errorf("bundle export: %w", chordset.ErrCancelled), true},
		{context.Canceled, true},
		{errors.New("write failed"), false},
		{&chordset.Error{Kind: chordset.KindValidation, Message: "please enter at least one chord"}, false},
	}

	for _, tt := range tests {
		if got := cancelled(tt.err); got != tt.want {
			t.Errorf("cancelled(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExportDeclinedKeepsFile(t *testing.T) {
	setForce(t, false)
	output := filepath.Join(t.TempDir(), "user_chord_set_01.json")
	if err := os.WriteFile(output, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	oldName, oldKey, oldOutput := setName, keyRoot, outputFile
	setName, keyRoot, outputFile = "Pop", "C", output
	t.Cleanup(func() { setName, keyRoot, outputFile = oldName, oldKey, oldOutput })

	cmd := &cobra.Command{
		Use:           "export",
		RunE:          runExport,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"C", "G"})

	err := cmd.Execute()
	if !cancelled(err) {
		t.Fatalf("Execute() = %v, want cancellation", err)
	}
	if !errors.Is(err, chordset.ErrCancelled) {
		t.Errorf("Execute() = %v, want ErrCancelled", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("file = %q, want it untouched", data)
	}
}
