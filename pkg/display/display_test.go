package display

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-circuitview/pkg/circuit"
	"github.com/goliatone/go-circuitview/pkg/renderers/circuitjs"
	"github.com/goliatone/go-circuitview/pkg/testsupport"
)

type stubRenderer struct {
	calls []bool
	err   error
}

func (s *stubRenderer) RenderAsHTML(_ context.Context, _ circuit.Source, inline bool) (string, error) {
	s.calls = append(s.calls, inline)
	if s.err != nil {
		return "", s.err
	}
	if inline {
		return "<div>inline</div>", nil
	}
	return "<!DOCTYPE html><html>standalone</html>", nil
}

// recordingNotebook reads the served file while the display call is in flight.
type recordingNotebook struct {
	dir       string
	snippets  []string
	contents  []string
	displayFn func(string) error
}

var iframeSrc = regexp.MustCompile(`<iframe src="([^"]+)"`)

func (n *recordingNotebook) DisplayHTML(html string) error {
	n.snippets = append(n.snippets, html)
	if m := iframeSrc.FindStringSubmatch(html); m != nil {
		data, err := os.ReadFile(filepath.Join(n.dir, filepath.FromSlash(strings.TrimPrefix(m[1], "./"))))
		if err != nil {
			return err
		}
		n.contents = append(n.contents, string(data))
	}
	if n.displayFn != nil {
		return n.displayFn(html)
	}
	return nil
}

type suppressingNotebook struct {
	recordingNotebook
	suppressed bool
	restored   bool
}

func (n *suppressingNotebook) SuppressWarnings() func() {
	n.suppressed = true
	return func() { n.restored = true }
}

func noSleep(context.Context, time.Duration) {}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOfflineJupyterServesStandaloneDocumentThroughIFrame(t *testing.T) {
	dir := t.TempDir()
	renderer := &stubRenderer{}
	nb := &recordingNotebook{dir: dir}

	var slept []time.Duration
	var during []string
	sleep := func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
		during = testsupport.ListDir(t, dir)
	}

	offline := NewOffline(renderer,
		WithNotebook(nb),
		WithWorkDir(dir),
		WithSleep(sleep),
		WithLogger(quietLogger()),
	)

	out, err := offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell())
	if err != nil {
		t.Fatalf("render jupyter: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty result, got %q", out)
	}

	if diff := cmp.Diff([]bool{false}, renderer.calls); diff != "" {
		t.Fatalf("renderer must be called once in standalone mode (-want +got):\n%s", diff)
	}
	if len(nb.snippets) != 1 {
		t.Fatalf("expected one display request, got %d", len(nb.snippets))
	}
	snippet := nb.snippets[0]
	for _, fragment := range []string{
		`width="100%"`,
		`height="200px"`,
		`style="border: none; outline: none; resize: vertical; overflow: auto"`,
	} {
		if !strings.Contains(snippet, fragment) {
			t.Fatalf("iframe missing %q: %s", fragment, snippet)
		}
	}
	m := iframeSrc.FindStringSubmatch(snippet)
	if m == nil || !strings.HasPrefix(m[1], "./circuitview-") || !strings.HasSuffix(m[1], ".html") {
		t.Fatalf("unexpected iframe src in %s", snippet)
	}

	if diff := cmp.Diff([]string{"<!DOCTYPE html><html>standalone</html>"}, nb.contents); diff != "" {
		t.Fatalf("served file contents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]time.Duration{DefaultCleanupDelay}, slept); diff != "" {
		t.Fatalf("cleanup delay mismatch (-want +got):\n%s", diff)
	}
	if len(during) != 1 {
		t.Fatalf("expected the file to exist during the grace period, got %v", during)
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected file removed after return, found %v", left)
	}
}

func TestOfflineJupyterWithRealRenderer(t *testing.T) {
	dir := t.TempDir()
	renderer, err := circuitjs.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	nb := &recordingNotebook{dir: dir}

	offline := NewOffline(renderer, WithNotebook(nb), WithWorkDir(dir), WithCleanupDelay(0), WithLogger(quietLogger()))
	if _, err := offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell()); err != nil {
		t.Fatalf("render jupyter: %v", err)
	}

	want, err := renderer.RenderAsHTML(testsupport.Context(), testsupport.Bell(), false)
	if err != nil {
		t.Fatalf("render standalone: %v", err)
	}
	if diff := cmp.Diff([]string{want}, nb.contents); diff != "" {
		t.Fatalf("served document mismatch (-want +got):\n%s", diff)
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected no files left, found %v", left)
	}
}

func TestOfflineUnavailableNotebookCreatesNoFile(t *testing.T) {
	dir := t.TempDir()
	offline := NewOffline(&stubRenderer{}, WithWorkDir(dir), WithSleep(noSleep), WithLogger(quietLogger()))

	_, err := offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell())
	if !errors.Is(err, ErrNotebookUnavailable) {
		t.Fatalf("expected ErrNotebookUnavailable, got %v", err)
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected no files, found %v", left)
	}
}

func TestOfflineResolvesNotebookOnce(t *testing.T) {
	dir := t.TempDir()
	nb := &recordingNotebook{dir: dir}
	calls := 0
	resolver := func() (Notebook, error) {
		calls++
		return nb, nil
	}

	offline := NewOffline(&stubRenderer{}, WithResolver(resolver), WithWorkDir(dir), WithSleep(noSleep), WithLogger(quietLogger()))
	if calls != 0 {
		t.Fatalf("resolver must not run at construction")
	}
	if _, err := offline.RenderCircuitAsHTML(testsupport.Context(), testsupport.Bell(), false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if calls != 0 {
		t.Fatalf("resolver must not run for non-notebook renders")
	}
	for i := 0; i < 3; i++ {
		if _, err := offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell()); err != nil {
			t.Fatalf("render jupyter: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one resolution, got %d", calls)
	}
	if len(nb.snippets) != 3 {
		t.Fatalf("expected three display requests, got %d", len(nb.snippets))
	}
	if nb.snippets[0] == nb.snippets[1] {
		t.Fatalf("each display should get its own file")
	}
}

func TestOfflineCleansUpWhenDisplayFails(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("frontend gone")
	nb := &recordingNotebook{dir: dir, displayFn: func(string) error { return boom }}

	offline := NewOffline(&stubRenderer{}, WithNotebook(nb), WithWorkDir(dir), WithSleep(noSleep), WithLogger(quietLogger()))
	_, err := offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell())
	if !errors.Is(err, boom) {
		t.Fatalf("expected display error, got %v", err)
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected file removed after failure, found %v", left)
	}
}

func TestOfflineCleansUpOnPanic(t *testing.T) {
	dir := t.TempDir()
	nb := &recordingNotebook{dir: dir, displayFn: func(string) error { panic("display exploded") }}
	offline := NewOffline(&stubRenderer{}, WithNotebook(nb), WithWorkDir(dir), WithSleep(noSleep), WithLogger(quietLogger()))

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_, _ = offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell())
	}()

	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected file removed after panic, found %v", left)
	}
}

func TestOfflineRenderFailureCreatesNoFile(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("bad circuit")
	nb := &recordingNotebook{dir: dir}
	offline := NewOffline(&stubRenderer{err: boom}, WithNotebook(nb), WithWorkDir(dir), WithSleep(noSleep), WithLogger(quietLogger()))

	if _, err := offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell()); !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}
	if len(nb.snippets) != 0 {
		t.Fatalf("notebook must not be called on render failure")
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected no files, found %v", left)
	}
}

func TestOfflineSuppressesWarningsDuringDisplay(t *testing.T) {
	dir := t.TempDir()
	nb := &suppressingNotebook{recordingNotebook: recordingNotebook{dir: dir}}
	nb.displayFn = func(string) error {
		if !nb.suppressed || nb.restored {
			t.Fatalf("warnings should be suppressed while displaying")
		}
		return nil
	}

	offline := NewOffline(&stubRenderer{}, WithNotebook(nb), WithWorkDir(dir), WithSleep(noSleep), WithLogger(quietLogger()))
	if _, err := offline.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell()); err != nil {
		t.Fatalf("render jupyter: %v", err)
	}
	if !nb.restored {
		t.Fatalf("warnings should be restored after display")
	}
}

func TestOfflineNonJupyterReturnsStandaloneDocument(t *testing.T) {
	dir := t.TempDir()
	renderer := &stubRenderer{}
	offline := NewOffline(renderer, WithWorkDir(dir), WithLogger(quietLogger()))

	out, err := offline.RenderCircuitAsHTML(testsupport.Context(), testsupport.Bell(), false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<!DOCTYPE html><html>standalone</html>" {
		t.Fatalf("unexpected output %q", out)
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("non-notebook renders must not write files, found %v", left)
	}
}

func TestBaseReturnsHTMLWithoutNotebook(t *testing.T) {
	renderer := &stubRenderer{}
	base := NewBase(renderer)

	inline, err := base.RenderCircuitJupyter(testsupport.Context(), testsupport.Bell())
	if err != nil {
		t.Fatalf("render jupyter: %v", err)
	}
	standalone, err := base.RenderCircuitAsHTML(testsupport.Context(), testsupport.Bell(), false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if inline != "<div>inline</div>" || !strings.HasPrefix(standalone, "<!DOCTYPE html>") {
		t.Fatalf("unexpected output %q / %q", inline, standalone)
	}
	if diff := cmp.Diff([]bool{true, false}, renderer.calls); diff != "" {
		t.Fatalf("inline flags mismatch (-want +got):\n%s", diff)
	}
}

func TestViewBrowserOpensAbsolutePathAndRemovesFile(t *testing.T) {
	dir := t.TempDir()
	var opened []string
	var contents []string
	opener := func(path string) error {
		opened = append(opened, path)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		contents = append(contents, string(data))
		return nil
	}

	base := NewBase(&stubRenderer{}, WithTempDir(dir), WithOpener(opener), WithSleep(noSleep), WithLogger(quietLogger()))
	if err := base.ViewBrowser(testsupport.Context(), testsupport.Bell()); err != nil {
		t.Fatalf("view browser: %v", err)
	}

	if len(opened) != 1 || !filepath.IsAbs(opened[0]) || filepath.Dir(opened[0]) != dir {
		t.Fatalf("unexpected opened paths %v", opened)
	}
	if diff := cmp.Diff([]string{"<!DOCTYPE html><html>standalone</html>"}, contents); diff != "" {
		t.Fatalf("opened document mismatch (-want +got):\n%s", diff)
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected file removed, found %v", left)
	}
}

func TestViewBrowserOpenFailure(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("no browser")
	err := ViewBrowser(testsupport.Context(), &stubRenderer{}, testsupport.Bell(),
		WithTempDir(dir),
		WithOpener(func(string) error { return boom }),
		WithSleep(noSleep),
		WithLogger(quietLogger()),
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected opener error, got %v", err)
	}
	if left := testsupport.ListDir(t, dir); len(left) != 0 {
		t.Fatalf("expected file removed, found %v", left)
	}
}

func TestReleaseToleratesMissingFile(t *testing.T) {
	dir := t.TempDir()
	a, err := createArtifact(dir, "<html></html>")
	if err != nil {
		t.Fatalf("create artifact: %v", err)
	}
	if err := os.Remove(a.path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a.release(testsupport.Context(), 0, noSleep, logger)

	if !strings.Contains(logs.String(), "already gone") {
		t.Fatalf("expected debug log for missing file, got %q", logs.String())
	}
}

func TestSleepReturnsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		Sleep(ctx, time.Hour)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Sleep did not return after cancellation")
	}
}

func TestIFrameEscapesSource(t *testing.T) {
	got := IFrame(`./a"b.html`)
	if !strings.Contains(got, `src="./a&#34;b.html"`) {
		t.Fatalf("expected escaped src, got %s", got)
	}
}

func TestWriterNotebook(t *testing.T) {
	var buf bytes.Buffer
	if err := (WriterNotebook{W: &buf}).DisplayHTML("<b>x</b>"); err != nil {
		t.Fatalf("display: %v", err)
	}
	if buf.String() != "<b>x</b>\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if err := (WriterNotebook{}).DisplayHTML("x"); err == nil {
		t.Fatalf("expected error without writer")
	}
}
