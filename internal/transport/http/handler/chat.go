package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mindease-chat/internal/app"
	"mindease-chat/internal/transport/http/middleware"
	"mindease-chat/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	sid := middleware.SessionIDFromContext(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	turns, err := h.chatService.Send(c.Request.Context(), sess, sid, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrLoginRequired):
			response.Error(c, http.StatusUnauthorized, response.CodeLoginRequired, "please login to chat")
		case errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrLLMConfig):
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
		}
		return
	}

	response.OK(c, gin.H{"transcript": turns})
}

func (h *ChatHandler) StreamMessage(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	sid := middleware.SessionIDFromContext(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	if !sess.LoggedIn {
		response.Error(c, http.StatusUnauthorized, response.CodeLoginRequired, "please login to chat")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "stream not supported")
		return
	}

	full, err := h.chatService.SendStream(c.Request.Context(), sess, sid, req.Message, func(chunk string) error {
		if _, writeErr := c.Writer.Write([]byte("data: " + chunk + "\n\n")); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if _, writeErr := c.Writer.Write([]byte(fmt.Sprintf("event: error\ndata: %s\n\n", sanitizeSSE(err.Error())))); writeErr == nil {
			flusher.Flush()
		}
		return
	}

	if _, writeErr := c.Writer.Write([]byte("event: done\ndata: " + sanitizeSSE(full) + "\n\n")); writeErr == nil {
		flusher.Flush()
	}
}

func (h *ChatHandler) GetTranscript(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	sid := middleware.SessionIDFromContext(c)

	turns, err := h.chatService.Transcript(c.Request.Context(), sess, sid)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrLoginRequired):
			response.Error(c, http.StatusUnauthorized, response.CodeLoginRequired, "please login to chat")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get transcript failed")
		}
		return
	}

	response.OK(c, gin.H{"transcript": turns})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	history, err := h.chatService.History(c.Request.Context(), sess)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrLoginRequired):
			response.Error(c, http.StatusUnauthorized, response.CodeLoginRequired, "please login to view history")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		}
		return
	}

	response.OK(c, gin.H{"history": history})
}

func sanitizeSSE(input string) string {
	replaced := strings.ReplaceAll(input, "\r\n", "\\n")
	replaced = strings.ReplaceAll(replaced, "\n", "\\n")
	return strings.ReplaceAll(replaced, "\r", "\\n")
}
