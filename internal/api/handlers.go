// ABOUTME: HTTP handlers for users, plants, chat and care tasks
// ABOUTME: Maps domain sentinel errors to 400/404/409
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/plant-texts/internal/care"
	"github.com/harper/plant-texts/internal/chat"
	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	"github.com/harper/plant-texts/internal/storage/sqlite"
	"go.uber.org/zap"
)

const (
	defaultTurnLimit = 20
	maxTurnLimit     = 200
)

// Store is the persistence the handlers need
type Store interface {
	Ping(ctx context.Context) error
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetPlant(ctx context.Context, plantID string) (*models.Plant, error)
	ListPlants(ctx context.Context, userID string) ([]models.Plant, error)
	SetPlantPersonality(ctx context.Context, plantID, personalityType string) error
	RecentTurns(ctx context.Context, plantID string, n int) ([]models.ConversationTurn, error)
}

// Chatter answers a message as a plant
type Chatter interface {
	Chat(ctx context.Context, plantID, message string) (*chat.Reply, error)
}

// Handlers holds the dependencies of every route
type Handlers struct {
	Store    Store
	Chatter  Chatter
	Care     *care.Service
	Resolver *personality.Resolver
	Logger   *zap.Logger
	Now      func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

// fail writes an error response and records err on the context
func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrMessageTooLong):
		status = http.StatusBadRequest
	case errors.Is(err, chat.ErrPlantNotFound), errors.Is(err, care.ErrTaskNotFound), errors.Is(err, sqlite.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, care.ErrAlreadyCompleted):
		status = http.StatusConflict
	}
	_ = c.Error(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// Health reports whether the database is reachable
func (h *Handlers) Health(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPersonalities returns every personality profile
func (h *Handlers) ListPersonalities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"personalities": h.Resolver.Profiles()})
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// CreateUser registers a user
func (h *Handlers) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid user data")
		return
	}
	user, err := models.NewUser(req.Name, req.Phone)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Store.CreateUser(c.Request.Context(), user); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser returns one user
func (h *Handlers) GetUser(c *gin.Context) {
	user, err := h.Store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		notFound(c, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}

type createPlantRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Species         string `json:"species"`
	PersonalityType string `json:"personality_type"`
}

// CreatePlant adds a plant to a user and schedules its care tasks
func (h *Handlers) CreatePlant(c *gin.Context) {
	var req createPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid plant data")
		return
	}

	typ := personality.Default
	if req.PersonalityType != "" {
		var ok bool
		if typ, ok = personality.ParseType(req.PersonalityType); !ok {
			badRequest(c, "unknown personality_type "+strconv.Quote(req.PersonalityType))
			return
		}
	}

	ctx := c.Request.Context()
	user, err := h.Store.GetUser(ctx, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		notFound(c, "user")
		return
	}

	plant, err := models.NewPlant(req.UserID, req.Name, req.Species, typ.String())
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	tasks, err := h.Care.AddPlant(ctx, plant, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"plant":         plant,
		"care_tasks":    tasks,
		"species_known": h.Care.KnownSpecies(plant.Species),
	})
}

// GetPlant returns one plant
func (h *Handlers) GetPlant(c *gin.Context) {
	plant, err := h.Store.GetPlant(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if plant == nil {
		notFound(c, "plant")
		return
	}
	c.JSON(http.StatusOK, plant)
}

type updatePlantRequest struct {
	PersonalityType string `json:"personality_type" binding:"required"`
}

// UpdatePlant changes a plant's personality
func (h *Handlers) UpdatePlant(c *gin.Context) {
	var req updatePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "personality_type is required")
		return
	}
	typ, ok := personality.ParseType(req.PersonalityType)
	if !ok {
		badRequest(c, "unknown personality_type "+strconv.Quote(req.PersonalityType))
		return
	}

	ctx := c.Request.Context()
	if err := h.Store.SetPlantPersonality(ctx, c.Param("id"), typ.String()); err != nil {
		h.fail(c, err)
		return
	}
	plant, err := h.Store.GetPlant(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plant)
}

// ListPlants returns a user's plants
func (h *Handlers) ListPlants(c *gin.Context) {
	plants, err := h.Store.ListPlants(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if plants == nil {
		plants = []models.Plant{}
	}
	c.JSON(http.StatusOK, gin.H{"plants": plants})
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat sends a message to a plant and returns its reply
func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid chat request")
		return
	}
	reply, err := h.Chatter.Chat(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// ListTurns returns a plant's recent conversation, oldest first
func (h *Handlers) ListTurns(c *gin.Context) {
	limit := defaultTurnLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxTurnLimit {
			badRequest(c, "limit must be 1-"+strconv.Itoa(maxTurnLimit))
			return
		}
		limit = n
	}

	turns, err := h.Store.RecentTurns(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}
	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

// PlantCare lists a plant's care tasks; ?all=true includes completed ones
func (h *Handlers) PlantCare(c *gin.Context) {
	includeCompleted := c.Query("all") == "true"
	tasks, err := h.Care.ForPlant(c.Request.Context(), c.Param("id"), includeCompleted)
	if err != nil {
		h.fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.CareTask{}
	}
	c.JSON(http.StatusOK, gin.H{"care_tasks": tasks})
}

// DueCare lists a user's due tasks with personality-voiced reminders
func (h *Handlers) DueCare(c *gin.Context) {
	reminders, err := h.Care.Reminders(c.Request.Context(), c.Param("id"), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	if reminders == nil {
		reminders = []care.DueReminder{}
	}
	c.JSON(http.StatusOK, gin.H{"due": reminders})
}

type completeRequest struct {
	CompletedAt *time.Time `json:"completed_at"`
}

// CompleteCare marks a task done and returns the next scheduled task
func (h *Handlers) CompleteCare(c *gin.Context) {
	var req completeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid completion data")
			return
		}
	}
	at := h.now()
	if req.CompletedAt != nil {
		at = req.CompletedAt.UTC()
	}

	next, err := h.Care.Complete(c.Request.Context(), c.Param("taskID"), at)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed_at": at, "next_task": next})
}
