package terminal

import (
	"context"
	"fmt"
	"math"

	"github.com/Boo15mario/linutil-gui/internal/infrastructure/monitoring"
	"github.com/Boo15mario/linutil-gui/internal/types"
)

// Provider exposes session operations as service tools
type Provider struct {
	manager *Manager
	metrics *monitoring.Metrics
}

// NewProvider creates a terminal provider backed by manager
func NewProvider(manager *Manager) *Provider {
	return &Provider{
		manager: manager,
		metrics: manager.opts.Metrics,
	}
}

// Manager returns the underlying session manager
func (p *Provider) Manager() *Manager {
	return p.manager
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Command Runner",
		Description: "Runs composed command scripts on a pseudo-terminal and captures their output",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"pty",
			"script",
			"interactive",
			"ansi-strip",
			"log-export",
		},
		Tools: p.getTools(),
		DataModels: []types.DataModel{
			{
				Name: "session_info",
				Fields: map[string]string{
					"id":          "string",
					"pid":         "number",
					"outcome":     "string",
					"exit_code":   "number",
					"output_len":  "number",
					"active":      "boolean",
					"started_at":  "string",
					"finished_at": "string",
				},
			},
		},
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	timer := monitoring.NewTimer(p.metrics, "terminal", toolID)

	result, err := p.execute(ctx, toolID, params)
	switch {
	case err != nil:
		timer.Stop("error")
	case !result.Success:
		timer.Stop("failure")
	default:
		timer.Stop("success")
	}
	return result, err
}

func (p *Provider) execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "terminal.run":
		return p.run(params)
	case "terminal.read":
		return p.read(params)
	case "terminal.write":
		return p.write(params)
	case "terminal.kill":
		return p.kill(params)
	case "terminal.status":
		return p.status(params)
	case "terminal.save_log":
		return p.saveLog(params)
	case "terminal.resize":
		return p.resize(params)
	case "terminal.list_sessions":
		return p.listSessions()
	case "terminal.close":
		return p.closeSession(ctx, params)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}
}

func sessionParam() types.Parameter {
	return types.Parameter{
		Name:        "session_id",
		Type:        "string",
		Description: "Session ID returned by terminal.run",
		Required:    true,
	}
}

func (p *Provider) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "terminal.run",
			Name:        "Run Commands",
			Description: "Compose shell lines into one script and run it on a new pseudo-terminal",
			Parameters: []types.Parameter{
				{
					Name:        "commands",
					Type:        "array",
					Description: "Shell lines, run in order by one shell",
					Required:    true,
				},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.read",
			Name:        "Read Output",
			Description: "Read output appended since an offset, with escape sequences removed",
			Parameters: []types.Parameter{
				sessionParam(),
				{
					Name:        "offset",
					Type:        "number",
					Description: "Byte offset returned by the previous read. Defaults to 0",
					Required:    false,
				},
			},
			Returns: "output_data",
		},
		{
			ID:          "terminal.write",
			Name:        "Send Input",
			Description: "Send a line of input to the running process",
			Parameters: []types.Parameter{
				sessionParam(),
				{
					Name:        "input",
					Type:        "string",
					Description: "Text to send; a newline is appended",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Process",
			Description: "Ask the running process to terminate",
			Parameters:  []types.Parameter{sessionParam()},
			Returns:     "success",
		},
		{
			ID:          "terminal.status",
			Name:        "Session Status",
			Description: "Get the completion state of a session",
			Parameters:  []types.Parameter{sessionParam()},
			Returns:     "session_info",
		},
		{
			ID:          "terminal.save_log",
			Name:        "Save Log",
			Description: "Write the captured output to a timestamped log file",
			Parameters: []types.Parameter{
				sessionParam(),
				{
					Name:        "compression",
					Type:        "string",
					Description: "none, gzip or zstd. Defaults to none",
					Required:    false,
				},
			},
			Returns: "path",
		},
		{
			ID:          "terminal.resize",
			Name:        "Resize Terminal",
			Description: "Change pseudo-terminal dimensions",
			Parameters: []types.Parameter{
				sessionParam(),
				{
					Name:        "cols",
					Type:        "number",
					Description: "New width in columns",
					Required:    true,
				},
				{
					Name:        "rows",
					Type:        "number",
					Description: "New height in rows",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Sessions",
			Description: "List all known sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.close",
			Name:        "Close Session",
			Description: "Stop the process if needed and release the session",
			Parameters:  []types.Parameter{sessionParam()},
			Returns:     "success",
		},
	}
}

func (p *Provider) lookup(params map[string]interface{}) (*Session, *types.Result) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return nil, types.Failure("session_id parameter required")
	}
	session, err := p.manager.Get(sessionID)
	if err != nil {
		return nil, types.Failure(err.Error())
	}
	return session, nil
}

func (p *Provider) run(params map[string]interface{}) (*types.Result, error) {
	raw, ok := params["commands"].([]interface{})
	if !ok {
		return types.Failure("commands must be an array of strings"), nil
	}

	actions := make([]types.Action, 0, len(raw))
	for _, item := range raw {
		line, ok := item.(string)
		if !ok {
			return types.Failure("commands must be an array of strings"), nil
		}
		actions = append(actions, types.RawShellLine(line))
	}

	session, err := p.manager.Run(actions)
	if err != nil {
		return types.Failure(err.Error()), nil
	}
	return types.Success(infoData(session.Info())), nil
}

func (p *Provider) read(params map[string]interface{}) (*types.Result, error) {
	session, failure := p.lookup(params)
	if failure != nil {
		return failure, nil
	}

	offset, ok := offsetParam(params["offset"])
	if !ok {
		return types.Failure("offset must be a non-negative integer"), nil
	}

	text, next, err := session.ReadSince(offset)
	if err != nil {
		return nil, err
	}

	return types.Success(map[string]interface{}{
		"output":  text,
		"offset":  next,
		"length":  len(text),
		"outcome": session.Completion().String(),
		"message": session.Completion().Message(),
	}), nil
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	session, failure := p.lookup(params)
	if failure != nil {
		return failure, nil
	}

	input, ok := params["input"].(string)
	if !ok {
		return types.Failure("input parameter required"), nil
	}

	if err := session.SendInput(input); err != nil {
		return types.Failure(err.Error()), nil
	}
	return types.Success(map[string]interface{}{"success": true}), nil
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	session, failure := p.lookup(params)
	if failure != nil {
		return failure, nil
	}

	if err := session.Kill(); err != nil {
		return nil, err
	}
	return types.Success(map[string]interface{}{"success": true}), nil
}

func (p *Provider) status(params map[string]interface{}) (*types.Result, error) {
	session, failure := p.lookup(params)
	if failure != nil {
		return failure, nil
	}

	data := infoData(session.Info())
	data["message"] = session.Completion().Message()
	return types.Success(data), nil
}

func (p *Provider) saveLog(params map[string]interface{}) (*types.Result, error) {
	session, failure := p.lookup(params)
	if failure != nil {
		return failure, nil
	}

	compression := CompressionNone
	if c, ok := params["compression"].(string); ok && c != "" {
		compression = Compression(c)
	}

	var (
		path string
		err  error
	)
	if compression == CompressionNone {
		path, err = session.SaveLog()
	} else {
		path, err = session.ArchiveLog(compression)
	}
	if err != nil {
		return types.Failure(err.Error()), nil
	}

	return types.Success(map[string]interface{}{
		"path":        path,
		"compression": string(compression),
	}), nil
}

func (p *Provider) resize(params map[string]interface{}) (*types.Result, error) {
	session, failure := p.lookup(params)
	if failure != nil {
		return failure, nil
	}

	cols, ok := params["cols"].(float64)
	if !ok {
		return types.Failure("cols parameter required"), nil
	}
	rows, ok := params["rows"].(float64)
	if !ok {
		return types.Failure("rows parameter required"), nil
	}
	if cols < 1 || rows < 1 || cols > 65535 || rows > 65535 {
		return types.Failure("cols and rows must be between 1 and 65535"), nil
	}

	if err := session.Resize(uint16(rows), uint16(cols)); err != nil {
		return types.Failure(err.Error()), nil
	}
	return types.Success(map[string]interface{}{"success": true}), nil
}

func (p *Provider) listSessions() (*types.Result, error) {
	infos := p.manager.List()

	sessions := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		sessions = append(sessions, infoData(info))
	}

	return types.Success(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	}), nil
}

func (p *Provider) closeSession(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return types.Failure("session_id parameter required"), nil
	}

	if err := p.manager.Remove(ctx, sessionID); err != nil {
		return types.Failure(err.Error()), nil
	}
	return types.Success(map[string]interface{}{"success": true}), nil
}

// offsetParam accepts a missing offset, an int, or a float64 holding a
// whole number in [0, MaxInt).
func offsetParam(v interface{}) (int, bool) {
	switch o := v.(type) {
	case nil:
		return 0, true
	case int:
		return o, o >= 0
	case float64:
		if o < 0 || o >= float64(math.MaxInt) || o != math.Trunc(o) {
			return 0, false
		}
		return int(o), true
	default:
		return 0, false
	}
}

func infoData(info SessionInfo) map[string]interface{} {
	data := map[string]interface{}{
		"id":         info.ID,
		"pid":        info.PID,
		"cols":       info.Cols,
		"rows":       info.Rows,
		"started_at": info.StartedAt,
		"outcome":    info.Outcome,
		"exit_code":  info.ExitCode,
		"output_len": info.OutputLen,
		"active":     info.Active,
	}
	if !info.FinishedAt.IsZero() {
		data["finished_at"] = info.FinishedAt
	}
	if info.Error != "" {
		data["error"] = info.Error
	}
	return data
}
