package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-agent/internal/api/dto"
	"github.com/spec-kit/ticket-agent/internal/service"
)

// SlackHandler serves the slash command, interaction and event endpoints.
type SlackHandler struct {
	intake *service.IntakeService
	action *service.ActionService
	status *service.StatusService
	logger *zap.Logger
}

// NewSlackHandler constructs handler.
func NewSlackHandler(intake *service.IntakeService, action *service.ActionService, status *service.StatusService, logger *zap.Logger) *SlackHandler {
	return &SlackHandler{intake: intake, action: action, status: status, logger: logger}
}

// Command POST /slack/command. Slack posts slash commands as form fields.
// The response body is the ephemeral text shown to the invoker, so this
// handler always answers 200 with a text payload.
func (h *SlackHandler) Command(c *fiber.Ctx) error {
	cmd := dto.SlashCommand{
		Command:   c.FormValue("command"),
		Text:      c.FormValue("text"),
		UserID:    c.FormValue("user_id"),
		ChannelID: c.FormValue("channel_id"),
	}

	switch cmd.Command {
	case "/ticket":
		ack := h.intake.Submit(cmd.UserID, cmd.ChannelID, cmd.Text)
		return c.JSON(fiber.Map{"text": ack})
	case "/ticket_status":
		text := h.status.Query(c.Context(), cmd.Text, cmd.ChannelID, cmd.UserID)
		return c.JSON(fiber.Map{"text": text})
	default:
		return c.JSON(fiber.Map{"text": "unknown command"})
	}
}

// Actions POST /slack/actions. Interactions arrive urlencoded with a
// `payload` field holding JSON, or occasionally as a raw JSON body.
func (h *SlackHandler) Actions(c *fiber.Ctx) error {
	payload, ok := h.parseInteraction(c)
	if !ok || len(payload.Actions) == 0 || payload.Actions[0].Value == "" {
		return c.JSON(fiber.Map{"text": service.MsgInvalidPayload})
	}

	action := payload.Actions[0]
	userID := ""
	if payload.User != nil {
		userID = payload.User.ID
	}
	h.logger.Info("interaction received",
		zap.String("action_id", action.ActionID),
		zap.String("issue_key", action.Value),
		zap.String("user", userID))

	text := h.action.Handle(c.Context(), action.ActionID, action.Value, payload.ResolveChannel())
	return c.JSON(fiber.Map{"text": text})
}

// Events POST /slack/events. Echoes the url_verification challenge; other
// event types are acknowledged and dropped.
func (h *SlackHandler) Events(c *fiber.Ctx) error {
	var event dto.EventCallback
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return c.JSON(fiber.Map{})
	}
	if event.Type == "url_verification" {
		return c.JSON(fiber.Map{"challenge": event.Challenge})
	}
	return c.JSON(fiber.Map{})
}

func (h *SlackHandler) parseInteraction(c *fiber.Ctx) (*dto.InteractionPayload, bool) {
	var raw []byte
	if strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		raw = c.Body()
	} else if field := c.FormValue("payload"); field != "" {
		raw = []byte(field)
	} else {
		// Fallback: some clients post bare JSON without a content type.
		raw = c.Body()
	}

	var payload dto.InteractionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("unparseable interaction payload", zap.Error(err))
		return nil, false
	}
	return &payload, true
}
