package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"mentora/internal/application/usecase"
	"mentora/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const guestCookieName = "guest_session"

type ChatHandler struct {
	chat *usecase.ChatUseCase
}

func NewChatHandler(chat *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type askRequest struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
}

type historyItem struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Topic     string    `json:"topic"`
	Day       int       `json:"day"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := currentUserID(c)
	session := ""
	if userID == nil {
		session = h.guestSession(c)
	}

	result, err := h.chat.Ask(c.Request.Context(), usecase.AskInput{
		UserID:       userID,
		GuestSession: session,
		Topic:        req.Topic,
		Question:     req.Question,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrGuestLimitExceeded):
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "You've used your free questions! Sign up to keep learning.",
				"limit_reached": true,
			})
		case errors.Is(err, usecase.ErrPlanLimitExceeded):
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "You've reached the free plan limit. Upgrade to keep asking!",
				"limit_reached": true,
			})
		default:
			// Неожиданные сбои отдаем как есть, известные классы
			// провайдера до сюда не доходят — у них есть заглушки
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if result.IsMock {
		c.JSON(http.StatusOK, gin.H{"answer": result.Answer, "is_mock": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": result.Answer})
}

func (h *ChatHandler) History(c *gin.Context) {
	userID := currentUserID(c)
	topic := c.Query("topic")

	var day *int
	if raw := c.Query("day"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			day = &parsed
		}
	}

	conversations, err := h.chat.History(c.Request.Context(), userID, topic, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	items := make([]historyItem, 0, len(conversations))
	for _, conv := range conversations {
		items = append(items, historyItem{
			ID:        conv.ID,
			Question:  conv.Question,
			Answer:    conv.Answer,
			Topic:     conv.Topic,
			Day:       conv.DayNumber,
			Timestamp: conv.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	if err := h.chat.DeleteConversation(c.Request.Context(), *userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *ChatHandler) SubjectDays(c *gin.Context) {
	subject := c.Query("subject")
	if subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'subject' query parameter is required"})
		return
	}

	days, err := h.chat.SubjectDays(c.Request.Context(), currentUserID(c), subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subject days"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

// guestSession достает id анонимной сессии из cookie или заводит новую
func (h *ChatHandler) guestSession(c *gin.Context) string {
	if session, err := c.Cookie(guestCookieName); err == nil && session != "" {
		return session
	}
	session := uuid.NewString()
	c.SetCookie(guestCookieName, session, 24*60*60, "/", "", false, true)
	return session
}

// currentUserID возвращает id из контекста, nil для гостя
func currentUserID(c *gin.Context) *uuid.UUID {
	raw, ok := c.Get("userId")
	if !ok {
		return nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return nil
	}
	return &id
}
