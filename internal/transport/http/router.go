package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"guardianearth/internal/transport/ws"
)

func NewRouter(handler *PaymentHandler, hub *ws.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	payment := r.Group("/api/payment")
	{
		payment.POST("/stripe-payment", handler.CreateCardPayment)
		payment.POST("/verify-bank-payment", handler.SubmitBankTransfer)
		payment.GET("", handler.ListPayments)
		payment.GET("/user/:id", handler.ListDonorPayments)
		payment.GET("/summary", handler.Summary)
		payment.GET("/ws", hub.HandleDashboard)
		payment.PUT("/:id", handler.ReviewPayment)
		payment.DELETE("/delete/:id", handler.DeletePayment)
	}

	return r
}
