package feedback

import (
	"net/http"

	fbservice "FProject/module/feedback/service"

	"github.com/gin-gonic/gin"
)

// 管理端只读 API：运维侧查看问题和已收反馈，补充聊天里的 `list`。

type Handler struct {
	store fbservice.Store
}

func NewHandler(store fbservice.Store) *Handler {
	return &Handler{store: store}
}

// HandleQuestions GET /api/questions
func (h *Handler) HandleQuestions(c *gin.Context) {
	questions, err := h.store.ListQuestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// HandleFeedback GET /api/feedback/:user_id
func (h *Handler) HandleFeedback(c *gin.Context) {
	userID := c.Param("user_id")
	doc, err := h.store.ListFeedback(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusOK, gin.H{"receiver_id": userID, "entries": []any{}})
		return
	}
	c.JSON(http.StatusOK, doc)
}
