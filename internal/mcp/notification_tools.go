// ABOUTME: MCP tool implementations for the session's notifications.
// ABOUTME: Registers list_notifications, mark_notification_read, and mark_all_notifications_read.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerNotificationTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_notifications",
		Description: "List notifications raised this session, newest first, with the unread count.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"unread_only": {"type": "boolean", "description": "Only unread notifications"}
			}
		}`),
	}, s.handleListNotifications)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "mark_notification_read",
		Description: "Mark one notification as read.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Notification ID", "minLength": 1}
			},
			"required": ["id"]
		}`),
	}, s.handleMarkNotificationRead)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "mark_all_notifications_read",
		Description: "Mark every notification as read.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleMarkAllNotificationsRead)
}

func (s *Server) handleListNotifications(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		UnreadOnly bool `json:"unread_only"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError("invalid arguments: %v", err), nil
		}
	}

	snap := s.app.Snapshot()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d unread (%d for you)\n", snap.UnreadCount, snap.OwnUnreadCount))
	for _, n := range snap.Notifications {
		if args.UnreadOnly && n.Read {
			continue
		}
		mark := " "
		if !n.Read {
			mark = "*"
		}
		sb.WriteString(fmt.Sprintf("%s [%s] @%s %s (post %s, for %s) %s\n",
			mark, n.ID, n.FromUsername, n.Message, n.PostID, n.UserID, n.Timestamp.Format(timeLayout)))
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.ID == "" {
		return toolError("id is required"), nil
	}

	if !s.app.MarkNotificationRead(args.ID) {
		return toolError("notification %s not found", args.ID), nil
	}
	return toolText("Marked %s as read (%d unread)", args.ID, s.app.Snapshot().UnreadCount), nil
}

func (s *Server) handleMarkAllNotificationsRead(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	s.app.MarkAllNotificationsRead()
	return toolText("All notifications marked as read"), nil
}
