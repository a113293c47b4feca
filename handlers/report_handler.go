package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-service/orders"
	"pos-service/reports"
)

type ReportHandler struct {
	book *orders.Book
}

func NewReportHandler(book *orders.Book) *ReportHandler {
	return &ReportHandler{book: book}
}

// Summary handles GET /reports/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, reports.Summarize(h.book.List()))
}
