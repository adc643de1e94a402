package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) Register(ctx context.Context) error { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error    { return s.record("login") }
func (s *stubExec) Whoami(ctx context.Context) error   { return s.record("whoami") }
func (s *stubExec) Add(ctx context.Context) error      { return s.record("add") }
func (s *stubExec) List(ctx context.Context) error     { return s.record("list") }
func (s *stubExec) Complete(ctx context.Context) error { return s.record("complete") }
func (s *stubExec) Delete(ctx context.Context) error   { return s.record("delete") }
func (s *stubExec) Logout(ctx context.Context) error   { return s.record("logout") }

func runScript(t *testing.T, a *stubExec, script string) []string {
	t.Helper()

	origPrintln := printlnFn
	defer func() { printlnFn = origPrintln }()
	var output []string
	printlnFn = func(args ...any) (int, error) {
		for _, arg := range args {
			if s, ok := arg.(string); ok {
				output = append(output, s)
			}
		}
		return 0, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), a, func() string { return "status" }, scanner)
	return output
}

func TestREPL_DispatchesCommands(t *testing.T) {
	a := &stubExec{loggedIn: true}
	runScript(t, a, "add\nlist\ncomplete\ndelete\nwhoami\nlogout\nexit\n")

	want := []string{"add", "list", "complete", "delete", "whoami", "logout"}
	if len(a.calls) != len(want) {
		t.Fatalf("want %v, got %v", want, a.calls)
	}
	for i := range want {
		if a.calls[i] != want[i] {
			t.Fatalf("call %d: want %s, got %s", i, want[i], a.calls[i])
		}
	}
}

func TestREPL_ExitStopsLoop(t *testing.T) {
	a := &stubExec{}
	runScript(t, a, "exit\nlogin\n")
	if len(a.calls) != 0 {
		t.Fatalf("no command may run after exit, got %v", a.calls)
	}
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	a := &stubExec{}
	output := runScript(t, a, "frobnicate\nexit\n")

	found := false
	for _, line := range output {
		if strings.Contains(line, "Unknown command: frobnicate") {
			found = true
		}
	}
	if !found {
		t.Fatalf("unknown command not reported, output: %v", output)
	}
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	out := runScript(t, &stubExec{loggedIn: false}, "help\nexit\n")
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "register, login, exit") {
		t.Fatalf("logged-out help missing, output: %v", out)
	}

	out = runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	joined = strings.Join(out, "\n")
	if !strings.Contains(joined, "whoami, add, list, complete, delete, logout, exit") {
		t.Fatalf("logged-in help missing, output: %v", out)
	}
}

func TestREPL_EmptyLineIgnored(t *testing.T) {
	a := &stubExec{}
	runScript(t, a, "\n\nlogin\nexit\n")
	if len(a.calls) != 1 || a.calls[0] != "login" {
		t.Fatalf("unexpected calls: %v", a.calls)
	}
}
