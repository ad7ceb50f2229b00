// CLAUDE:SUMMARY Registers all browser MCP tools — session, snapshot, interaction, extraction, journal.
package domdriver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/chrd/journal"
	"github.com/hazyhaar/chrd/kit"
)

// RegisterMCP registers the browser tools on an MCP server.
func (e *Engine) RegisterMCP(srv *mcp.Server) {
	e.registerOpenBrowserTool(srv)
	e.registerCloseBrowserTool(srv)
	e.registerSnapshotTool(srv)
	e.registerNavigateTool(srv)
	e.registerBackTool(srv)
	e.registerForwardTool(srv)
	e.registerWaitForNavigationTool(srv)
	e.registerWaitForElementTool(srv)
	e.registerSwitchFrameTool(srv)
	e.registerSwitchToMainTool(srv)
	e.registerNewPageTool(srv)
	e.registerListPagesTool(srv)
	e.registerSelectPageTool(srv)
	e.registerClosePageTool(srv)
	e.registerClickTool(srv)
	e.registerHoverTool(srv)
	e.registerTypeTextTool(srv)
	e.registerFillTool(srv)
	e.registerSubmitFormTool(srv)
	e.registerPressKeyTool(srv)
	e.registerDragTool(srv)
	e.registerUploadFileTool(srv)
	e.registerScrollTool(srv)
	e.registerScrollToTool(srv)
	e.registerExtractTextTool(srv)
	e.registerExtractDataTool(srv)
	e.registerScreenshotTool(srv)
	e.registerSavePDFTool(srv)
	e.registerPageInfoTool(srv)
	e.registerPendingDialogTool(srv)
	e.registerJournalTailTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// middleware wraps a tool endpoint with journaling when a store is
// configured.
func (e *Engine) middleware() kit.Middleware {
	if e.journal == nil {
		return kit.Chain()
	}
	return kit.Chain(journal.Middleware(e.journal))
}

// decodeInto produces a decode function for a typed request struct. The
// enriched context carries the command name and session id for the
// journal.
func decodeInto[T any](e *Engine, command string) func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	return func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		r := new(T)
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{
			Request: r,
			EnrichCtx: func(ctx context.Context) context.Context {
				ctx = kit.WithCommand(ctx, command)
				return kit.WithSessionID(ctx, e.SessionID())
			},
		}, nil
	}
}

type emptyRequest struct{}

// --- open_browser ---

type openBrowserRequest struct {
	URL string `json:"url"`
}

func (e *Engine) registerOpenBrowserTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "open_browser",
		Description: "Launch the browser, navigate to a URL and return a snapshot of the interactive elements. Closes any previously open session.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Absolute URL to open"},
		}, []string{"url"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*openBrowserRequest)
		if r.URL == "" {
			return nil, fmt.Errorf("open_browser: url is required")
		}
		return e.OpenBrowser(ctx, r.URL)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[openBrowserRequest](e, "open_browser"))
}

// --- close_browser ---

func (e *Engine) registerCloseBrowserTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "close_browser",
		Description: "Close the browser session. All element identifiers become invalid.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.CloseBrowser(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "close_browser"))
}

// --- snapshot ---

func (e *Engine) registerSnapshotTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "snapshot",
		Description: "List the interactive elements currently visible on the active page, each with a stable uid for use in other tools. Identifiers from earlier snapshots stay valid while their elements survive.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.Snapshot(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "snapshot"))
}

// --- navigate / back / forward ---

type navigateRequest struct {
	URL string `json:"url"`
}

func (e *Engine) registerNavigateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "navigate",
		Description: "Navigate the active page to a URL and return a fresh snapshot.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Absolute URL to navigate to"},
		}, []string{"url"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*navigateRequest)
		if r.URL == "" {
			return nil, fmt.Errorf("navigate: url is required")
		}
		return e.Navigate(ctx, r.URL)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[navigateRequest](e, "navigate"))
}

func (e *Engine) registerBackTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "back",
		Description: "Go back one page in the browser history.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.Back(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "back"))
}

func (e *Engine) registerForwardTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "forward",
		Description: "Go forward one page in the browser history.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.Forward(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "forward"))
}

func (e *Engine) registerWaitForNavigationTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "wait_for_navigation",
		Description: "Wait for an in-flight page load to finish (e.g. after a click that started one) and return a fresh snapshot.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.WaitForNavigation(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "wait_for_navigation"))
}

// --- wait_for_element ---

type waitForElementRequest struct {
	Selector string `json:"selector"`
	Seconds  int    `json:"seconds,omitempty"`
}

func (e *Engine) registerWaitForElementTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "wait_for_element",
		Description: "Wait until an element matching a CSS selector appears, then report it. Run snapshot afterwards to get its uid.",
		InputSchema: inputSchema(map[string]any{
			"selector": map[string]any{"type": "string", "description": "CSS selector to wait for"},
			"seconds":  map[string]any{"type": "integer", "description": "Max seconds to wait (default 5)"},
		}, []string{"selector"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*waitForElementRequest)
		if r.Selector == "" {
			return nil, fmt.Errorf("wait_for_element: selector is required")
		}
		return e.WaitForElement(ctx, r.Selector, time.Duration(r.Seconds)*time.Second)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[waitForElementRequest](e, "wait_for_element"))
}

// --- frames ---

type switchFrameRequest struct {
	Selector string `json:"selector"`
}

func (e *Engine) registerSwitchFrameTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "switch_frame",
		Description: "Scope subsequent commands to the iframe matching a CSS selector (its content is invisible to the top-level snapshot). Returns a snapshot of the frame.",
		InputSchema: inputSchema(map[string]any{
			"selector": map[string]any{"type": "string", "description": "CSS selector of the iframe, e.g. iframe#login"},
		}, []string{"selector"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*switchFrameRequest)
		if r.Selector == "" {
			return nil, fmt.Errorf("switch_frame: selector is required")
		}
		return e.SwitchFrame(ctx, r.Selector)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[switchFrameRequest](e, "switch_frame"))
}

func (e *Engine) registerSwitchToMainTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "switch_to_main",
		Description: "Return command scope from an iframe to the main document.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.SwitchToMain(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "switch_to_main"))
}

// --- pages ---

type newPageRequest struct {
	URL string `json:"url"`
}

func (e *Engine) registerNewPageTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "new_page",
		Description: "Open a new tab at a URL, make it active and return its snapshot.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Absolute URL to open in the new tab"},
		}, []string{"url"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*newPageRequest)
		if r.URL == "" {
			return nil, fmt.Errorf("new_page: url is required")
		}
		return e.NewPage(ctx, r.URL)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[newPageRequest](e, "new_page"))
}

func (e *Engine) registerListPagesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "list_pages",
		Description: "List open tabs with their index, title and URL. The active tab is marked with *.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.ListPages(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "list_pages"))
}

type pageIndexRequest struct {
	Index int `json:"index"`
}

func (e *Engine) registerSelectPageTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "select_page",
		Description: "Switch the active tab by index (see list_pages).",
		InputSchema: inputSchema(map[string]any{
			"index": map[string]any{"type": "integer", "description": "Tab index from list_pages"},
		}, []string{"index"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*pageIndexRequest)
		return e.SelectPage(ctx, r.Index)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[pageIndexRequest](e, "select_page"))
}

func (e *Engine) registerClosePageTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "close_page",
		Description: "Close the tab at index. The last remaining tab cannot be closed; use close_browser instead.",
		InputSchema: inputSchema(map[string]any{
			"index": map[string]any{"type": "integer", "description": "Tab index from list_pages"},
		}, []string{"index"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*pageIndexRequest)
		return e.ClosePage(ctx, r.Index)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[pageIndexRequest](e, "close_page"))
}

// --- click / hover ---

type clickRequest struct {
	UID    string `json:"uid"`
	Double bool   `json:"double,omitempty"`
}

func (e *Engine) registerClickTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "click",
		Description: "Click an element by uid. If the element is gone but was a link, navigates directly to its target and says so.",
		InputSchema: inputSchema(map[string]any{
			"uid":    map[string]any{"type": "string", "description": "Element uid from a snapshot"},
			"double": map[string]any{"type": "boolean", "description": "Double-click instead of single click"},
		}, []string{"uid"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*clickRequest)
		return e.Click(ctx, r.UID, r.Double)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[clickRequest](e, "click"))
}

type uidRequest struct {
	UID string `json:"uid"`
}

func (e *Engine) registerHoverTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "hover",
		Description: "Move the pointer over an element by uid without clicking (opens hover menus, tooltips).",
		InputSchema: inputSchema(map[string]any{
			"uid": map[string]any{"type": "string", "description": "Element uid from a snapshot"},
		}, []string{"uid"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*uidRequest)
		return e.Hover(ctx, r.UID)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[uidRequest](e, "hover"))
}

// --- type_text / fill ---

type typeTextRequest struct {
	UID  string `json:"uid"`
	Text string `json:"text"`
}

func (e *Engine) registerTypeTextTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "type_text",
		Description: "Clear a text field and type into it keystroke by keystroke. Without a uid the keystrokes go to the element that currently holds focus.",
		InputSchema: inputSchema(map[string]any{
			"uid":  map[string]any{"type": "string", "description": "Element uid of the field; omit to type into the focused element"},
			"text": map[string]any{"type": "string", "description": "Text to type"},
		}, []string{"text"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*typeTextRequest)
		return e.TypeText(ctx, r.UID, r.Text)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[typeTextRequest](e, "type_text"))
}

type fillRequest struct {
	UID   string `json:"uid"`
	Value string `json:"value"`
}

func (e *Engine) registerFillTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "fill",
		Description: "Set a form control's value. Dropdowns select an option by visible label or value; other fields are typed into.",
		InputSchema: inputSchema(map[string]any{
			"uid":   map[string]any{"type": "string", "description": "Element uid of the control"},
			"value": map[string]any{"type": "string", "description": "Value or option label to set"},
		}, []string{"uid", "value"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*fillRequest)
		return e.Fill(ctx, r.UID, r.Value)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[fillRequest](e, "fill"))
}

// --- submit_form ---

type submitFormRequest struct {
	UID string `json:"uid,omitempty"`
}

func (e *Engine) registerSubmitFormTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "submit_form",
		Description: "Submit a form: focuses the field with uid (if given) and presses Enter, then returns a fresh snapshot.",
		InputSchema: inputSchema(map[string]any{
			"uid": map[string]any{"type": "string", "description": "Element uid of a field in the form; omit to submit from the focused element"},
		}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*submitFormRequest)
		return e.SubmitForm(ctx, r.UID)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[submitFormRequest](e, "submit_form"))
}

// --- press_key ---

type pressKeyRequest struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers,omitempty"`
}

func (e *Engine) registerPressKeyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "press_key",
		Description: "Press a key (optionally with modifiers) on the focused element. Examples: enter, tab, escape, arrowdown, a.",
		InputSchema: inputSchema(map[string]any{
			"key":       map[string]any{"type": "string", "description": "Key name (enter, tab, escape, backspace, delete, arrow keys, home, end, pageup, pagedown, space, or a single character)"},
			"modifiers": map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": []any{"ctrl", "alt", "shift", "meta"}}, "description": "Held modifier keys"},
		}, []string{"key"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*pressKeyRequest)
		return e.PressKey(ctx, r.Key, r.Modifiers)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[pressKeyRequest](e, "press_key"))
}

// --- drag ---

type dragRequest struct {
	FromUID string `json:"from_uid"`
	ToUID   string `json:"to_uid"`
}

func (e *Engine) registerDragTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drag",
		Description: "Drag one element onto another (press, move, release).",
		InputSchema: inputSchema(map[string]any{
			"from_uid": map[string]any{"type": "string", "description": "Element uid to drag"},
			"to_uid":   map[string]any{"type": "string", "description": "Element uid to drop onto"},
		}, []string{"from_uid", "to_uid"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*dragRequest)
		return e.Drag(ctx, r.FromUID, r.ToUID)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[dragRequest](e, "drag"))
}

// --- upload_file ---

type uploadFileRequest struct {
	UID   string   `json:"uid"`
	Paths []string `json:"paths"`
}

func (e *Engine) registerUploadFileTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "upload_file",
		Description: "Attach local files to a file input element.",
		InputSchema: inputSchema(map[string]any{
			"uid":   map[string]any{"type": "string", "description": "Element uid of the file input"},
			"paths": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Absolute paths of files to attach"},
		}, []string{"uid", "paths"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*uploadFileRequest)
		return e.UploadFile(ctx, r.UID, r.Paths)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[uploadFileRequest](e, "upload_file"))
}

// --- scroll / scroll_to ---

type scrollRequest struct {
	Direction string `json:"direction"`
}

func (e *Engine) registerScrollTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "scroll",
		Description: "Scroll the page. Elements that scroll into view appear in the next snapshot.",
		InputSchema: inputSchema(map[string]any{
			"direction": map[string]any{"type": "string", "enum": []any{"up", "down", "top", "bottom"}, "description": "Scroll direction"},
		}, []string{"direction"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*scrollRequest)
		return e.Scroll(ctx, r.Direction)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[scrollRequest](e, "scroll"))
}

func (e *Engine) registerScrollToTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "scroll_to",
		Description: "Scroll an element into view by uid.",
		InputSchema: inputSchema(map[string]any{
			"uid": map[string]any{"type": "string", "description": "Element uid from a snapshot"},
		}, []string{"uid"}),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*uidRequest)
		return e.ScrollTo(ctx, r.UID)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[uidRequest](e, "scroll_to"))
}

// --- extract_text / extract_data ---

type extractTextRequest struct {
	Selectors []string `json:"selectors,omitempty"`
}

func (e *Engine) registerExtractTextTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_text",
		Description: "Extract the readable content of the page as markdown. Without selectors the main content is found automatically.",
		InputSchema: inputSchema(map[string]any{
			"selectors": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Optional CSS selectors (tag, #id, .class) to narrow extraction"},
		}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractTextRequest)
		return e.ExtractText(ctx, r.Selectors)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[extractTextRequest](e, "extract_text"))
}

type extractDataRequest struct {
	Kind string `json:"kind,omitempty"`
}

func (e *Engine) registerExtractDataTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_data",
		Description: "Extract structured content (tables, lists, headings, links) from the page as JSON.",
		InputSchema: inputSchema(map[string]any{
			"kind": map[string]any{"type": "string", "enum": []any{"auto", "tables", "lists", "headings", "links"}, "description": "Shape to extract (default auto: everything found)"},
		}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*extractDataRequest)
		return e.ExtractData(ctx, r.Kind)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[extractDataRequest](e, "extract_data"))
}

// --- screenshot / save_pdf ---

type screenshotRequest struct {
	FullPage bool `json:"full_page,omitempty"`
}

func (e *Engine) registerScreenshotTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "screenshot",
		Description: "Capture the page as a PNG file and return its path.",
		InputSchema: inputSchema(map[string]any{
			"full_page": map[string]any{"type": "boolean", "description": "Capture the full scrollable page instead of the viewport"},
		}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*screenshotRequest)
		return e.Screenshot(ctx, r.FullPage)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[screenshotRequest](e, "screenshot"))
}

func (e *Engine) registerSavePDFTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "save_pdf",
		Description: "Print the page to a PDF file and return its path and page count.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.SavePDF(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "save_pdf"))
}

// --- page_info ---

func (e *Engine) registerPageInfoTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "page_info",
		Description: "Report the active page's URL, title, tab count and scroll position.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		return e.PageInfo(ctx)
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[emptyRequest](e, "page_info"))
}

// --- pending_dialog ---

type pendingDialogRequest struct {
	Action     string `json:"action,omitempty"`
	PromptText string `json:"prompt_text,omitempty"`
}

func (e *Engine) registerPendingDialogTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "pending_dialog",
		Description: "Inspect or answer a JavaScript dialog (alert, confirm, prompt). Without an action the pending dialog is described; accept or dismiss consumes it.",
		InputSchema: inputSchema(map[string]any{
			"action":      map[string]any{"type": "string", "enum": []any{"accept", "dismiss"}, "description": "Answer the dialog instead of just inspecting it"},
			"prompt_text": map[string]any{"type": "string", "description": "Text to enter when accepting a prompt dialog"},
		}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*pendingDialogRequest)
		switch r.Action {
		case "":
			return e.DialogInfo(ctx)
		case "accept":
			return e.HandleDialog(ctx, true, r.PromptText)
		case "dismiss":
			return e.HandleDialog(ctx, false, "")
		default:
			return nil, fmt.Errorf("pending_dialog: unknown action %q (use accept or dismiss)", r.Action)
		}
	}
	kit.RegisterMCPTool(srv, tool, e.middleware()(endpoint), decodeInto[pendingDialogRequest](e, "pending_dialog"))
}

// --- journal_tail ---

type journalTailRequest struct {
	Limit int `json:"limit,omitempty"`
}

func (e *Engine) registerJournalTailTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "journal_tail",
		Description: "Show the most recent browser commands and their outcomes, newest first.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "description": "Max entries to return (default 20)"},
		}, nil),
	}
	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*journalTailRequest)
		return e.JournalTail(ctx, r.Limit)
	}
	// Tail queries are not themselves journaled.
	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[journalTailRequest](e, "journal_tail"))
}
