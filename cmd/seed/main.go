package main

import (
	"log"
	"os"

	"convo-commerce-be/internal/model"
	"convo-commerce-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Fixed demo identifiers so the seed is idempotent and the README
// examples work out of the box.
var (
	demoTenantId = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	demoBotId    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

const demoFlowDocument = `{
	"steps": [
		{"code": "IDLE", "description": "Waiting for the customer to say something", "allowed_tools": [], "next_steps": ["BROWSING", "HANDOVER"]},
		{"code": "BROWSING", "description": "Customer is exploring the catalog", "allowed_tools": ["search_catalog"], "next_steps": ["VIEWING", "HANDOVER"]},
		{"code": "VIEWING", "description": "Customer is looking at one product", "allowed_tools": ["get_product", "add_to_cart"], "next_steps": ["PURCHASING", "BROWSING", "HANDOVER"]},
		{"code": "PURCHASING", "description": "Customer is checking out", "allowed_tools": ["create_order"], "next_steps": ["BROWSING", "HANDOVER"]},
		{"code": "HANDOVER", "description": "A human agent owns the conversation", "allowed_tools": [], "next_steps": []}
	]
}`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo tenant %s", demoTenantId)

	flowConfig := model.BotFlowConfig{
		TenantId: demoTenantId,
		BotId:    demoBotId,
		Version:  1,
		Document: datatypes.JSON([]byte(demoFlowDocument)),
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bot_id"}, {Name: "version"}},
		DoUpdates: clause.AssignmentColumns([]string{"document"}),
	}).Create(&flowConfig).Error
	if err != nil {
		log.Fatalf("Error: Failed to seed flow config: %v", err)
	}
	color.Green("✅ Flow config seeded (bot %s v1)", demoBotId)

	guardrails := []model.Guardrail{
		{
			TenantId:  demoTenantId,
			BotId:     &demoBotId,
			Code:      "order-hard-limit",
			Condition: "order_total <= 500",
			Action:    "BLOCK",
			Priority:  100,
			IsActive:  true,
		},
		{
			TenantId:  demoTenantId,
			BotId:     &demoBotId,
			Code:      "order-soft-limit",
			Condition: "order_total <= 200",
			Action:    "WARN",
			Priority:  50,
			IsActive:  true,
		},
		{
			TenantId:  demoTenantId,
			Code:      "message-length",
			Condition: "message_length <= 2000",
			Action:    "BLOCK",
			Priority:  90,
			IsActive:  true,
		},
	}
	for _, rail := range guardrails {
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"condition", "action", "priority", "is_active"}),
		}).Create(&rail).Error
		if err != nil {
			log.Fatalf("Error: Failed to seed guardrail %s: %v", rail.Code, err)
		}
		color.Green("✅ Guardrail seeded: %s (%s, priority %d)", rail.Code, rail.Action, rail.Priority)
	}

	color.Cyan("Done. Issue turns with bot_id=%s against tenant %s.", demoBotId, demoTenantId)
}
