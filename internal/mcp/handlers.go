// ABOUTME: MCP tool handler implementations for the plant texts server
// ABOUTME: Tool failures are reported as error results, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/plant-texts/internal/care"
	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Chatter answers a message as a plant
type Chatter interface {
	Chat(ctx context.Context, plantID, message string) (*chat.Reply, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	chat     Chatter
	care     *care.Service
	resolver *personality.Resolver
	logger   *zap.Logger
	now      func() time.Time
}

func (h *Handlers) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now().UTC()
}

// ChatWithPlant handles the chat_with_plant tool
func (h *Handlers) ChatWithPlant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plantID, err := request.RequireString("plant_id")
	if err != nil {
		return mcp.NewToolResultError("plant_id argument is required and must be a string"), nil
	}
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	reply, err := h.chat.Chat(ctx, plantID, message)
	switch {
	case errors.Is(err, chat.ErrPlantNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("plant %s not found", plantID)), nil
	case err != nil:
		h.logger.Warn("chat tool failed", zap.String("plant_id", plantID), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}

	return jsonResult(reply)
}

// ListPersonalities handles the list_personalities tool
func (h *Handlers) ListPersonalities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]interface{}{
		"personalities": h.resolver.Profiles(),
	})
}

// ListCareTasks handles the list_care_tasks tool
func (h *Handlers) ListCareTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plantID := request.GetString("plant_id", "")
	userID := request.GetString("user_id", "")

	switch {
	case plantID != "":
		tasks, err := h.care.ForPlant(ctx, plantID, request.GetBool("include_completed", false))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list care tasks: %v", err)), nil
		}
		if tasks == nil {
			tasks = []models.CareTask{}
		}
		return jsonResult(map[string]interface{}{"care_tasks": tasks})

	case userID != "":
		reminders, err := h.care.Reminders(ctx, userID, h.clock())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list due tasks: %v", err)), nil
		}
		if reminders == nil {
			reminders = []care.DueReminder{}
		}
		return jsonResult(map[string]interface{}{"due": reminders})
	}

	return mcp.NewToolResultError("either plant_id or user_id is required"), nil
}

// CompleteCareTask handles the complete_care_task tool
func (h *Handlers) CompleteCareTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id argument is required and must be a string"), nil
	}

	next, err := h.care.Complete(ctx, taskID, h.clock())
	switch {
	case errors.Is(err, care.ErrTaskNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("care task %s not found", taskID)), nil
	case errors.Is(err, care.ErrAlreadyCompleted):
		return mcp.NewToolResultError(fmt.Sprintf("care task %s is already completed", taskID)), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete care task: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"success":   true,
		"next_task": next,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
