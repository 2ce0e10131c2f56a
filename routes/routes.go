package routes

import (
	"slipflow/controllers/console"
	"slipflow/controllers/slip"
	"slipflow/controllers/transaction"
	"slipflow/controllers/webhook"
	"slipflow/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	// messaging platform inbound
	app.Post("/webhook/messaging", middlewares.VerifyWebhookSignature(), webhook.HandleMessaging)

	// operator console
	operator := app.Group("/api", middlewares.OperatorAuth())
	operator.Post("/slips", slip.IngestSlip)
	operator.Get("/transactions", transaction.ListTransactions)
	operator.Patch("/transactions/:id/match", transaction.ManualMatch)
	operator.Patch("/transactions/:id/credit", transaction.ManualCredit)
	operator.Post("/transactions/:id/withdraw", transaction.WithdrawBack)
	operator.Delete("/transactions/:id", transaction.DeleteTransaction)

	// realtime console feed
	app.Use("/ws/console", console.RequireUpgrade)
	app.Get("/ws/console", console.Socket())
}
