package fileproc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/panbanda/pymetrics/pkg/analyzer"
	"github.com/panbanda/pymetrics/pkg/parser"
)

func createTestFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestMapFiles(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		createTestFile(t, tmpDir, "file1.py", "def main():\n    pass\n"),
		createTestFile(t, tmpDir, "file2.py", "def test():\n    pass\n"),
		createTestFile(t, tmpDir, "file3.py", "def validate():\n    pass\n"),
	}

	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		return filepath.Base(path), nil
	})

	if errs != nil {
		t.Errorf("Unexpected errors: %v", errs)
	}

	want := []string{"file1.py", "file2.py", "file3.py"}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(results))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q (input order)", i, results[i], want[i])
		}
	}
}

func TestMapFiles_EmptyFileList(t *testing.T) {
	results, errs := MapFiles(context.Background(), []string{}, func(p *parser.Parser, path string) (string, error) {
		return path, nil
	})

	if results != nil {
		t.Errorf("Expected nil for empty file list, got %v", results)
	}
	if errs != nil {
		t.Errorf("Expected nil errors for empty file list, got %v", errs)
	}
}

func TestMapFiles_WithErrors(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		createTestFile(t, tmpDir, "good1.py", "x = 1\n"),
		createTestFile(t, tmpDir, "bad.py", "x = 1\n"),
		createTestFile(t, tmpDir, "good2.py", "x = 1\n"),
	}

	processed := atomic.Int32{}
	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		processed.Add(1)
		if filepath.Base(path) == "bad.py" {
			return "", fmt.Errorf("simulated error")
		}
		return filepath.Base(path), nil
	})

	if int(processed.Load()) != 3 {
		t.Errorf("Expected all 3 files to be processed, got %d", processed.Load())
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 successful results (errors skipped), got %d", len(results))
	}
	if errs == nil {
		t.Fatal("Expected errors to be returned")
	}
	if len(errs.Errors) != 1 || filepath.Base(errs.Errors[0].Path) != "bad.py" {
		t.Errorf("Expected 1 error for bad.py, got %v", errs.Errors)
	}
}

func TestMapFiles_ActualParsing(t *testing.T) {
	tmpDir := t.TempDir()

	fileCount := 20
	files := make([]string, fileCount)
	for i := range fileCount {
		content := fmt.Sprintf("def test%d():\n    return %d\n", i, i)
		files[i] = createTestFile(t, tmpDir, fmt.Sprintf("file%d.py", i), content)
	}

	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		result, err := p.ParseFile(path)
		if err != nil {
			return "", err
		}
		if result.Module == nil {
			return "", fmt.Errorf("module is nil")
		}
		return result.Path, nil
	})

	if errs != nil {
		t.Errorf("Unexpected errors: %v", errs)
	}
	for i, file := range files {
		if i >= len(results) || results[i] != file {
			t.Errorf("Missing result for file: %s", file)
		}
	}
}

func TestMapFiles_SyntaxErrorsCollected(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "ok.py", "x = 1\n"),
		createTestFile(t, tmpDir, "broken.py", "def (:\n"),
	}

	results, errs := MapFiles(context.Background(), files, func(p *parser.Parser, path string) (string, error) {
		if _, err := p.ParseFile(path); err != nil {
			return "", err
		}
		return path, nil
	})

	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
	if errs == nil || len(errs.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %v", errs)
	}
	if !errors.Is(errs.Errors[0], parser.ErrSyntax) {
		t.Errorf("Expected ErrSyntax, got %v", errs.Errors[0].Err)
	}
}

func TestMapFiles_Cancellation(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "a.py", "x = 1\n"),
		createTestFile(t, tmpDir, "b.py", "x = 1\n"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, errs := MapFiles(ctx, files, func(p *parser.Parser, path string) (string, error) {
		return path, nil
	})

	if len(results) != 0 {
		t.Errorf("Expected no results after cancellation, got %d", len(results))
	}
	if errs == nil || len(errs.Errors) != len(files) {
		t.Fatalf("Expected %d errors, got %v", len(files), errs)
	}
	for _, e := range errs.Errors {
		if !errors.Is(e.Err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", e.Err)
		}
	}
}

func TestMapFilesWithSizeLimit(t *testing.T) {
	tmpDir := t.TempDir()

	smallFile := createTestFile(t, tmpDir, "small.py", "x = 1\n")
	large := make([]byte, 1024)
	for i := range large {
		large[i] = '#'
	}
	largeFile := createTestFile(t, tmpDir, "large.py", string(large))

	t.Run("with size limit", func(t *testing.T) {
		results, errs := MapFilesWithSizeLimit(context.Background(), []string{smallFile, largeFile}, 100, func(p *parser.Parser, path string) (string, error) {
			return filepath.Base(path), nil
		})

		if len(results) != 1 {
			t.Errorf("Expected 1 result (small file only), got %d", len(results))
		}
		if errs == nil || len(errs.Errors) != 1 {
			t.Fatalf("Expected 1 error for large file, got %v", errs)
		}
		if !errors.Is(errs.Errors[0], ErrFileTooLarge) {
			t.Errorf("Expected ErrFileTooLarge, got %v", errs.Errors[0].Err)
		}
	})

	t.Run("no size limit", func(t *testing.T) {
		results, errs := MapFilesWithSizeLimit(context.Background(), []string{smallFile, largeFile}, 0, func(p *parser.Parser, path string) (string, error) {
			return filepath.Base(path), nil
		})

		if errs != nil {
			t.Errorf("Unexpected errors: %v", errs)
		}
		if len(results) != 2 {
			t.Errorf("Expected 2 results with no limit, got %d", len(results))
		}
	})

	t.Run("stat error handling", func(t *testing.T) {
		nonExistent := filepath.Join(tmpDir, "nonexistent.py")
		results, errs := MapFilesWithSizeLimit(context.Background(), []string{nonExistent}, 100, func(p *parser.Parser, path string) (string, error) {
			return filepath.Base(path), nil
		})

		if len(results) != 0 {
			t.Errorf("Expected 0 results, got %d", len(results))
		}
		if errs == nil || len(errs.Errors) != 1 {
			t.Errorf("Expected 1 error, got %v", errs)
		}
	})
}

func TestTrackerIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	files := []string{
		createTestFile(t, tmpDir, "file1.py", "x = 1\n"),
		createTestFile(t, tmpDir, "file2.py", "x = 1\n"),
		createTestFile(t, tmpDir, "file3.py", "x = 1\n"),
	}

	var totals []int
	var paths []string
	var mu sync.Mutex

	tracker := analyzer.NewTracker(func(done, total int, path string) {
		mu.Lock()
		totals = append(totals, total)
		paths = append(paths, filepath.Base(path))
		mu.Unlock()
	})
	tracker.SetTotal(len(files))

	ctx := analyzer.WithTracker(context.Background(), tracker)
	results, errs := MapFiles(ctx, files, func(p *parser.Parser, path string) (string, error) {
		return filepath.Base(path), nil
	})

	if errs != nil {
		t.Errorf("Unexpected errors: %v", errs)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
	if len(paths) != 3 {
		t.Errorf("Expected 3 progress callbacks, got %d", len(paths))
	}
	for i, total := range totals {
		if total != 3 {
			t.Errorf("Progress callback %d: expected total=3, got %d", i, total)
		}
	}
	if tracker.Done() != 3 {
		t.Errorf("tracker.Done() = %d, want 3", tracker.Done())
	}
}

func TestProcessingError(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := ProcessingError{Path: "/path/to/file.py", Err: inner}
	if err.Error() != "/path/to/file.py: parse failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("ProcessingError should unwrap to its cause")
	}
}

func TestProcessingErrors(t *testing.T) {
	errs := &ProcessingErrors{}

	if errs.HasErrors() {
		t.Error("Empty ProcessingErrors should not have errors")
	}
	if errs.Error() != "no errors" {
		t.Errorf("Empty error message = %q, want 'no errors'", errs.Error())
	}

	errs.Add("/file1.py", fmt.Errorf("error1"))
	if !errs.HasErrors() {
		t.Error("ProcessingErrors with one error should have errors")
	}
	if errs.Error() != "/file1.py: error1" {
		t.Errorf("Single error message = %q", errs.Error())
	}

	errs.Add("/file2.py", fmt.Errorf("error2"))
	if errs.Error() != "2 files failed to process (first: /file1.py: error1)" {
		t.Errorf("Multiple error message = %q", errs.Error())
	}
}

func TestProcessingErrors_ThreadSafe(t *testing.T) {
	errs := &ProcessingErrors{}
	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs.Add(fmt.Sprintf("/file%d.py", n), fmt.Errorf("error %d", n))
		}(i)
	}
	wg.Wait()

	if len(errs.Errors) != 100 {
		t.Errorf("Expected 100 errors, got %d", len(errs.Errors))
	}
}

func BenchmarkMapFiles_Parallel(b *testing.B) {
	tmpDir := b.TempDir()

	fileCount := 100
	files := make([]string, fileCount)
	for i := range fileCount {
		files[i] = createTestFile(b, tmpDir, fmt.Sprintf("file%d.py", i), "def test():\n    return 1\n")
	}

	ctx := context.Background()
	b.ResetTimer()
	for range b.N {
		results, _ := MapFiles(ctx, files, func(p *parser.Parser, path string) (int, error) {
			if _, err := p.ParseFile(path); err != nil {
				return 0, err
			}
			return 1, nil
		})
		if len(results) != fileCount {
			b.Fatalf("Expected %d results, got %d", fileCount, len(results))
		}
	}
}
