package lemma

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const mystemTimeout = 5 * time.Second

// Mystem implements Lemmatizer over one long-lived Yandex mystem process.
// The dictionary is loaded when the process starts; calls are serialized on its pipes.
// If the process dies or stalls it is restarted on the next call.
type Mystem struct {
	path    string
	timeout time.Duration

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	starts int
}

// NewMystem resolves the mystem binary and starts it. An empty path searches PATH.
func NewMystem(path string) (*Mystem, error) {
	if path == "" {
		path = "mystem"
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to locate mystem binary: %w", err)
	}

	m := &Mystem{path: resolved, timeout: mystemTimeout}
	if err := m.start(); err != nil {
		return nil, err
	}
	return m, nil
}

// start launches the process. Caller holds mu or owns m exclusively.
func (m *Mystem) start() error {
	// -c keep the whole input, -d contextual disambiguation; one JSON array per input line
	cmd := exec.Command(m.path, "-c", "-d", "--format", "json", "-e", "utf-8")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open mystem stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open mystem stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mystem: %w", err)
	}

	m.cmd = cmd
	m.stdin = stdin
	m.stdout = bufio.NewReader(stdout)
	m.starts++
	return nil
}

// stop kills the process. Caller holds mu.
func (m *Mystem) stop() error {
	if m.cmd == nil {
		return nil
	}
	m.stdin.Close()
	err := m.cmd.Process.Kill()
	m.cmd.Wait()
	m.cmd, m.stdin, m.stdout = nil, nil, nil
	return err
}

func (m *Mystem) Lemmatize(text string) []string {
	tokens := firstLine(text)
	if len(tokens) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		if err := m.start(); err != nil {
			return nil
		}
	}

	if _, err := io.WriteString(m.stdin, strings.Join(tokens, " ")+"\n"); err != nil {
		m.stop()
		return nil
	}

	type line struct {
		b   []byte
		err error
	}
	ch := make(chan line, 1)
	stdout := m.stdout
	go func() {
		b, err := stdout.ReadBytes('\n')
		ch <- line{b, err}
	}()

	select {
	case l := <-ch:
		if l.err != nil {
			m.stop()
			return nil
		}
		return parseMystem(l.b)
	case <-time.After(m.timeout):
		// killing the process unblocks the reader
		m.stop()
		return nil
	}
}

// Close terminates the mystem process
func (m *Mystem) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		return nil
	}
	m.stdin.Close()
	err := m.cmd.Wait()
	m.cmd, m.stdin, m.stdout = nil, nil, nil
	return err
}

type mystemWord struct {
	Analysis []struct {
		Lex string `json:"lex"`
	} `json:"analysis"`
	Text string `json:"text"`
}

// parseMystem reads one JSON output line. Words without analysis keep their surface form.
func parseMystem(out []byte) []string {
	var words []mystemWord
	if err := json.Unmarshal(out, &words); err != nil {
		return nil
	}

	var lemmas []string
	for _, w := range words {
		if len(w.Analysis) > 0 && w.Analysis[0].Lex != "" {
			lemmas = append(lemmas, w.Analysis[0].Lex)
			continue
		}
		if t := strings.TrimSpace(w.Text); t != "" {
			lemmas = append(lemmas, strings.ToLower(t))
		}
	}
	return lemmas
}
