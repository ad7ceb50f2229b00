package domdriver

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/chrd/dbopen"
	"github.com/hazyhaar/chrd/journal"
)

var testMCPImpl = &mcp.Implementation{Name: "domdriver-test", Version: "0.1.0"}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mcpSession(t *testing.T, eng *Engine) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	eng.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %v", name, result.Content)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

// mcpCallToolErr calls a tool expecting an in-band tool error.
func mcpCallToolErr(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if !result.IsError {
		t.Fatalf("CallTool(%s): expected tool error, got success", name)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func TestMCP_AllToolsRegistered(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := []string{
		"open_browser", "close_browser", "snapshot",
		"navigate", "back", "forward",
		"new_page", "list_pages", "select_page", "close_page",
		"click", "hover", "type_text", "fill", "press_key",
		"drag", "upload_file", "scroll", "scroll_to",
		"extract_text", "extract_data", "screenshot", "save_pdf",
		"page_info", "pending_dialog", "journal_tail",
		"wait_for_navigation", "wait_for_element",
		"switch_frame", "switch_to_main", "submit_form",
	}
	got := map[string]bool{}
	for _, tool := range tools.Tools {
		got[tool.Name] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
	if len(tools.Tools) != len(want) {
		t.Errorf("expected %d tools, got %d", len(want), len(tools.Tools))
	}
}

// Tools needing a live browser must fail in-band with a hint to open one,
// never as a protocol error.
func TestMCP_CommandsWithoutSession(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	for _, tc := range []struct {
		tool string
		args map[string]any
	}{
		{"list_pages", map[string]any{}},
		{"snapshot", map[string]any{}},
		{"click", map[string]any{"uid": "e1"}},
		{"type_text", map[string]any{"uid": "e1", "text": "hi"}},
		{"scroll", map[string]any{"direction": "down"}},
		{"page_info", map[string]any{}},
		{"pending_dialog", map[string]any{}},
		{"wait_for_navigation", map[string]any{}},
		{"wait_for_element", map[string]any{"selector": "#results"}},
		{"switch_frame", map[string]any{"selector": "iframe"}},
		{"switch_to_main", map[string]any{}},
		{"submit_form", map[string]any{}},
	} {
		msg := mcpCallToolErr(t, session, tc.tool, tc.args)
		if !strings.Contains(msg, "open_browser") {
			t.Errorf("%s: error %q should point at open_browser", tc.tool, msg)
		}
	}
}

func TestMCP_CloseBrowserWithoutSession(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	text := mcpCallTool(t, session, "close_browser", map[string]any{})
	if !strings.Contains(text, "No browser session") {
		t.Errorf("unexpected close_browser result: %q", text)
	}
}

func TestMCP_OpenBrowserRequiresURL(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	msg := mcpCallToolErr(t, session, "open_browser", map[string]any{})
	if !strings.Contains(msg, "url is required") {
		t.Errorf("unexpected error: %q", msg)
	}
}

// type_text with no uid targets the focused element; the schema must
// accept the call and route it to the engine rather than reject the
// arguments.
func TestMCP_TypeTextUIDOptional(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	msg := mcpCallToolErr(t, session, "type_text", map[string]any{"text": "hello"})
	if !strings.Contains(msg, "open_browser") {
		t.Errorf("uid-less type_text should reach the engine, got %q", msg)
	}
	if strings.Contains(msg, "invalid arguments") {
		t.Errorf("schema rejected a uid-less call: %q", msg)
	}
}

func TestMCP_WaitForElementRequiresSelector(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	msg := mcpCallToolErr(t, session, "wait_for_element", map[string]any{})
	if !strings.Contains(msg, "selector is required") {
		t.Errorf("unexpected error: %q", msg)
	}
}

func TestMCP_PendingDialogUnknownAction(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	msg := mcpCallToolErr(t, session, "pending_dialog", map[string]any{"action": "shrug"})
	if !strings.Contains(msg, "unknown action") {
		t.Errorf("unexpected error: %q", msg)
	}
}

func TestMCP_JournalTailDisabled(t *testing.T) {
	eng := New(Config{}, nil, testLogger())
	session := mcpSession(t, eng)

	text := mcpCallTool(t, session, "journal_tail", map[string]any{})
	if !strings.Contains(text, "disabled") {
		t.Errorf("expected disabled notice, got %q", text)
	}
}

// A failed command must land in the journal with its error message.
func TestMCP_JournalRecordsFailedCommand(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(journal.Schema))
	store := journal.NewStore(db)
	eng := New(Config{}, store, testLogger())
	session := mcpSession(t, eng)

	mcpCallToolErr(t, session, "list_pages", map[string]any{})

	if err := store.Close(); err != nil {
		t.Fatalf("store close: %v", err)
	}
	entries, err := store.Tail(context.Background(), 10)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	en := entries[0]
	if en.Command != "list_pages" {
		t.Errorf("command = %q, want list_pages", en.Command)
	}
	if en.Outcome != "error" {
		t.Errorf("outcome = %q, want error", en.Outcome)
	}
	if !strings.Contains(en.Detail, "open_browser") {
		t.Errorf("detail %q should carry the error message", en.Detail)
	}
}
