// ABOUTME: MCP tool definitions and registration for the plant texts server
// ABOUTME: Exposes chat, personalities and care tasks to MCP clients over stdio
package mcp

import (
	"github.com/harper/plant-texts/internal/care"
	"github.com/harper/plant-texts/internal/personality"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, chatter Chatter, careSvc *care.Service, resolver *personality.Resolver, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	handlers := &Handlers{
		chat:     chatter,
		care:     careSvc,
		resolver: resolver,
		logger:   logger,
	}

	// 1. chat_with_plant - Send a message to a plant and get its reply
	server.AddTool(mcp.Tool{
		Name:        "chat_with_plant",
		Description: "Send a text message to a plant. The plant answers in its assigned personality; if the language model is unavailable a pre-written reply ending in 🌱 is returned.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"plant_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the plant to talk to",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "What to say to the plant",
				},
			},
			Required: []string{"plant_id", "message"},
		},
	}, handlers.ChatWithPlant)

	// 2. list_personalities - Describe every personality type
	server.AddTool(mcp.Tool{
		Name:        "list_personalities",
		Description: "List the personality types a plant can have, with tone and sample phrases.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListPersonalities)

	// 3. list_care_tasks - Care tasks for a plant, or due reminders for a user
	server.AddTool(mcp.Tool{
		Name:        "list_care_tasks",
		Description: "List care tasks. Pass plant_id for one plant's schedule, or user_id for that user's due tasks with reminders in each plant's voice.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"plant_id": map[string]interface{}{
					"type":        "string",
					"description": "Plant whose schedule to list",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "User whose due tasks to list",
				},
				"include_completed": map[string]interface{}{
					"type":        "boolean",
					"description": "With plant_id, also list completed tasks (default: false)",
					"default":     false,
				},
			},
		},
	}, handlers.ListCareTasks)

	// 4. complete_care_task - Mark a task done
	server.AddTool(mcp.Tool{
		Name:        "complete_care_task",
		Description: "Mark a care task as done now. The next task of the same kind is scheduled from the plant's species interval.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"task_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the care task",
				},
			},
			Required: []string{"task_id"},
		},
	}, handlers.CompleteCareTask)

	return handlers
}
