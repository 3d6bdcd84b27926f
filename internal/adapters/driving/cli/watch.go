package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/proofmark/internal/adapters/driven/dispatch"
	"github.com/custodia-labs/proofmark/internal/adapters/driven/richtext"
	"github.com/custodia-labs/proofmark/internal/core/domain"
	"github.com/custodia-labs/proofmark/internal/core/ports/driving"
	"github.com/custodia-labs/proofmark/internal/logger"
)

var watchLog = logger.For("watch")

var watchNoColor bool

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-check a file every time it is saved",
	Long: `Watch a text file and print its issues after every save. Each line
of the file is a paragraph. Ignored errors stay hidden; run
"proofmark ignored add" in another terminal to hide more.

Stop with ctrl+c.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoColor, "no-color", false, "disable coloured output")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := services(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Sessions == nil {
		return ErrNotConfigured
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often replace the file on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	w := newFileWatch(svc.Sessions, args[0], string(data), out, newPalette(!watchNoColor && isTerminal(out)))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := w.loop.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		return w.follow(gctx, watcher, path)
	})

	fmt.Fprintf(out, "Watching %s (ctrl+c to stop)\n", args[0])
	if err := w.loop.Do(gctx, w.start); err != nil {
		cancel()
	}

	err = g.Wait()
	w.session.Close()
	return err
}

// fileWatch owns one session over a file. Everything except follow runs
// on loop.
type fileWatch struct {
	name    string
	editor  *richtext.Editor
	session driving.EditorSession
	loop    *dispatch.Loop
	out     io.Writer
	palette palette

	checking bool
}

func newFileWatch(sessions driving.SessionFactory, name, text string, out io.Writer, p palette) *fileWatch {
	ed := richtext.FromPlainText(text)
	loop := dispatch.NewLoop()
	return &fileWatch{
		name:    name,
		editor:  ed,
		session: sessions.NewSession(ed, loop),
		loop:    loop,
		out:     out,
		palette: p,
	}
}

func (w *fileWatch) start() {
	w.session.Subscribe(w.changed)
	w.session.Start()
}

// follow reloads the document whenever path is written.
func (w *fileWatch) follow(ctx context.Context, watcher *fsnotify.Watcher, path string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				watchLog.Warn("reading %s: %v", path, err)
				continue
			}
			text := string(data)
			w.loop.Dispatch(func() { w.reload(text) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Warn("watcher: %v", err)
		}
	}
}

// reload replaces the document when its text changed.
func (w *fileWatch) reload(text string) {
	if w.editor.Current().PlainText() == text {
		return
	}
	if err := w.editor.Load(richtext.PlainTextDoc(text)); err != nil {
		watchLog.Warn("loading %s: %v", w.name, err)
		return
	}
	watchLog.Debug("reloaded %s", w.name)
}

// changed prints a report each time a check completes.
func (w *fileWatch) changed() {
	checking := w.session.Checking()
	finished := w.checking && !checking
	w.checking = checking
	if finished {
		w.report()
	}
}

func (w *fileWatch) report() {
	findings := locateDecorations(w.editor.Current(), w.session.Decorations())
	writeTextReports(w.out, []fileReport{{Name: w.name, Findings: findings}}, w.palette)
}

// locateDecorations resolves live ranges to line and column, one line per
// textblock.
func locateDecorations(doc *richtext.Document, ranges []domain.MappedRange) []domain.Finding {
	blocks := doc.Textblocks()
	findings := make([]domain.Finding, 0, len(ranges))
	for _, r := range ranges {
		line, col := 0, 0
		for i, b := range blocks {
			if b.Contains(r.From) {
				line = i + 1
				col = int(r.From-b.Start) + 1
				break
			}
		}
		if line == 0 {
			continue
		}
		findings = append(findings, domain.Finding{
			Span:   r.Span,
			Text:   doc.TextBetween(r.From, r.To),
			Line:   line,
			Column: col,
		})
	}
	return findings
}
