package sculptor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// ExifTool manages a persistent exiftool process in -stay_open mode.
// Commands are serialized, so one ExifTool can back concurrent workers.
type ExifTool struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
}

// StartExifTool launches bin (default "exiftool"). The process lives until
// Close or until ctx is cancelled.
func StartExifTool(ctx context.Context, bin string) (*ExifTool, error) {
	if bin == "" {
		bin = "exiftool"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("sculptor: exiftool not found: %w", err)
	}
	cmd := exec.CommandContext(ctx, bin, "-stay_open", "True", "-@", "-")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("sculptor: exiftool stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("sculptor: exiftool stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("sculptor: exiftool stderr: %w", err)
	}

	go func() {
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			slog.Debug("sculptor: exiftool stderr", "line", sc.Text())
		}
	}()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("sculptor: start exiftool: %w", err)
	}
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &ExifTool{cmd: cmd, stdin: stdin, stdout: sc}, nil
}

// execute sends one argument list and returns the output up to {ready}.
func (et *ExifTool) execute(args ...string) (string, error) {
	et.mu.Lock()
	defer et.mu.Unlock()

	for _, arg := range args {
		if _, err := fmt.Fprintln(et.stdin, arg); err != nil {
			return "", fmt.Errorf("sculptor: exiftool write: %w", err)
		}
	}
	if _, err := fmt.Fprintln(et.stdin, "-execute"); err != nil {
		return "", fmt.Errorf("sculptor: exiftool write: %w", err)
	}

	var out strings.Builder
	for et.stdout.Scan() {
		line := et.stdout.Text()
		if strings.HasPrefix(line, "{ready") {
			return out.String(), nil
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := et.stdout.Err(); err != nil {
		return "", fmt.Errorf("sculptor: exiftool read: %w", err)
	}
	return "", fmt.Errorf("sculptor: exiftool exited")
}

// WriteCaption stores caption in EXIF ImageDescription, overwriting the file
// in place. Line breaks become spaces; the argument protocol is line based.
func (et *ExifTool) WriteCaption(ctx context.Context, imagePath, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	caption = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(caption)
	out, err := et.execute("-overwrite_original", "-charset", "exif=utf8", "-EXIF:ImageDescription="+caption, imagePath)
	if err != nil {
		return err
	}
	if !strings.Contains(out, "1 image files updated") {
		return fmt.Errorf("sculptor: exiftool did not update %s: %s", imagePath, strings.TrimSpace(out))
	}
	return nil
}

// ReadCaption returns EXIF ImageDescription of imagePath.
func (et *ExifTool) ReadCaption(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := et.execute("-json", "-EXIF:ImageDescription", imagePath)
	if err != nil {
		return "", err
	}
	return parseExifToolDescription(out)
}

func parseExifToolDescription(out string) (string, error) {
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		return "", fmt.Errorf("sculptor: exiftool json: %w", err)
	}
	if len(rows) == 0 {
		return "", ErrNoCaptionMetadata
	}
	v, ok := rows[0]["ImageDescription"]
	if !ok {
		return "", ErrNoCaptionMetadata
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return "", ErrNoCaptionMetadata
	}
	return s, nil
}

// Close shuts the exiftool process down.
func (et *ExifTool) Close() error {
	et.mu.Lock()
	defer et.mu.Unlock()

	if _, err := fmt.Fprintln(et.stdin, "-stay_open"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(et.stdin, "False"); err != nil {
		return err
	}
	if err := et.stdin.Close(); err != nil {
		return err
	}
	return et.cmd.Wait()
}
