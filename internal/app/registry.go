package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-leaveflow/internal/allowance"
	"go-leaveflow/internal/approval"
	"go-leaveflow/internal/audit"
	"go-leaveflow/internal/company"
	"go-leaveflow/internal/delegation"
	"go-leaveflow/internal/department"
	"go-leaveflow/internal/employee"
	"go-leaveflow/internal/holiday"
	"go-leaveflow/internal/leave"
	"go-leaveflow/internal/messaging/kafka"
	"go-leaveflow/internal/project"
	"go-leaveflow/internal/rbac"
	"go-leaveflow/internal/rbac/infra"
	"go-leaveflow/internal/schedule"
	"go-leaveflow/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	projectRepo := project.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	stepRepo := approval.NewStepRepository(gormDB)
	ruleRepo := approval.NewRuleRepository(gormDB)
	delegationRepo := delegation.NewRepository(gormDB)
	adjustmentRepo := allowance.NewAdjustmentRepository(gormDB)
	requestSource := allowance.NewRequestSource(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	resolver := approval.NewResolver(companyRepo, departmentRepo, employeeRepo, projectRepo, ruleRepo)
	delegationService := delegation.NewService(db, delegationRepo, employeeRepo)
	allowanceService := allowance.NewService(
		db,
		adjustmentRepo,
		requestSource,
		companyRepo,
		departmentRepo,
		employeeRepo,
		scheduleRepo,
		holidayRepo,
		rdb,
	)
	leaveService := leave.NewService(leave.ServiceDeps{
		DB:          db,
		Requests:    leaveRepo,
		Steps:       stepRepo,
		Resolver:    resolver,
		Delegations: delegationService,
		Allowances:  allowanceService,
		Companies:   companyRepo,
		Employees:   employeeRepo,
		Departments: departmentRepo,
		Schedules:   scheduleRepo,
		Holidays:    holidayRepo,
		Counter:     counterRepo,
		Outbox:      outboxRepo,
		Audit:       audit.NewStdoutLogger(),
	})

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService)
	leaveHandler := leave.NewHandler(leaveService)
	delegationHandler := delegation.NewHandler(delegationService)
	allowanceHandler := allowance.NewHandler(allowanceService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		delegation.RegisterRoutes(api, delegationHandler, rbacService)
		allowance.RegisterRoutes(api, allowanceHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
