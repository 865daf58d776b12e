package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":      None,
		"0":     All,
		"2":     Info,
		"debug": Debug,
		"WARN":  Warn,
		" none": None,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"6", "-1", "loud"} {
		if _, err := ParseLevel(bad); err == nil {
			t.Fatalf("ParseLevel(%q) should fail", bad)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Info).Named("coordinator")
	log.Debugf("hidden %d", 1)
	log.Infof("iteration %d", 3)
	log.Errorf("boom\n")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", out)
	}
	if !strings.Contains(out, "coordinator: iteration 3") {
		t.Fatalf("missing info line: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
}

func TestNoneAndNilDiscard(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, None).Errorf("nothing")
	if buf.Len() != 0 {
		t.Fatalf("level none wrote %q", buf.String())
	}
	var nilLog *Logger
	nilLog.Infof("no panic")
	if nilLog.Enabled(Error) {
		t.Fatal("nil logger must be disabled")
	}
}

func TestNamedLoggersShareWriterLock(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, Info)
	loggers := []*Logger{root, root.Named("rank-0"), root.Named("rank-1"), root.Named("rank-1").Named("nested")}

	var wg sync.WaitGroup
	for _, log := range loggers {
		wg.Add(1)
		go func(log *Logger) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				log.Infof("line %d", i)
			}
		}(log)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 400 {
		t.Fatalf("expected 400 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "[") || !strings.Contains(line, "line ") {
			t.Fatalf("interleaved output: %q", line)
		}
	}
}
