package httptransport

import (
	"github.com/gofiber/fiber/v2"
)

// toolCallRequest is the POST /v1/tools/call request body.
type toolCallRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// handleToolCall dispatches a tool call through the Shell and renders its
// Result Envelope verbatim as the response body, adapted from the
// teacher's internal/api/handlers case/judge/citation handlers (one
// handler per concern) collapsed here into the single dispatch surface
// the Shell already provides.
//
// @Summary Invoke a retrieval-core tool
// @Description Dispatches a named tool call with its arguments through the Shell and returns the tool's Result Envelope
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body toolCallRequest true "Tool call"
// @Success 200 {object} models.ToolResult
// @Failure 400 {object} fiber.Map
// @Security BearerAuth
// @Router /v1/tools/call [post]
func (s *Server) handleToolCall(c *fiber.Ctx) error {
	var req toolCallRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	if req.Arguments == nil {
		req.Arguments = map[string]interface{}{}
	}

	result := s.shell.HandleToolCall(c.Context(), req.Name, req.Arguments)
	return c.JSON(result)
}
