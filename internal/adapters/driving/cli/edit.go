package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/richtext"
	"github.com/custodia-labs/proofmark/internal/adapters/driving/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the interactive editor",
	Long: `Open a document in the terminal editor with live grammar checking.

Plain text files hold one paragraph per line. Files ending in .json are
read and written as ProseMirror documents, so headings, lists and marks
survive a round trip. A missing file is created on the first save; with
no file the editor opens a scratch document that cannot be saved.

Controls:
  Mouse      - Hover or click an underlined error
  ctrl+e     - Show the error under the cursor
  ctrl+n/p   - Next / previous error
  alt+1..5   - Apply a suggestion
  alt+i      - Ignore the error
  esc        - Dismiss
  ctrl+s     - Save
  f1         - Help
  ctrl+q     - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panicked: %v", r)
		}
	}()

	svc, err := services(cmd.Context())
	if err != nil {
		return err
	}

	opts := tui.Options{Name: "scratch"}
	ed := richtext.New()
	if len(args) == 1 {
		path := args[0]
		ed, err = openDocument(path)
		if err != nil {
			return err
		}
		opts.Name = filepath.Base(path)
		opts.Save = func(doc *richtext.Document) (string, error) {
			return path, saveDocument(path, doc)
		}
	}

	app, err := tui.NewApp(tui.NewPorts(svc.Sessions, settingsService), ed, opts)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func isJSONDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// openDocument loads path, or returns an empty document when it does not exist.
func openDocument(path string) (*richtext.Editor, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return richtext.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if isJSONDocument(path) {
		ed, err := richtext.FromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return ed, nil
	}
	return richtext.FromPlainText(string(data)), nil
}

// saveDocument writes doc to path through a temporary file in the same
// directory.
func saveDocument(path string, doc *richtext.Document) error {
	var data []byte
	if isJSONDocument(path) {
		encoded, err := doc.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding document: %w", err)
		}
		data = append(encoded, '\n')
	} else {
		data = []byte(doc.PlainText())
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".proofmark-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
