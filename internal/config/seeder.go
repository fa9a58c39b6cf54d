package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"padron-electoral/internal/adapters/persistence/models"
	"padron-electoral/internal/pkg/password"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder bootstraps roles, permissions and the admin account. Which
// permissions belong to which role is deployment policy, so the built-in
// catalog can be replaced by a JSON file via SEED_FILE.
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// SeedCatalog describes the roles, permissions and grants to bootstrap
type SeedCatalog struct {
	Permissions []SeedPermission `json:"permissions"`
	Roles       []SeedRole       `json:"roles"`
}

// SeedPermission is one permission entry in the catalog
type SeedPermission struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Module      string `json:"module"`
}

// SeedRole is one role entry with its granted permission codes
type SeedRole struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("Running database seeders...")

	catalog, err := s.loadCatalog()
	if err != nil {
		return err
	}

	if err := s.seedCatalog(catalog); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		return err
	}

	log.Println("Database seeding completed")
	return nil
}

// loadCatalog returns the seed file contents, or the built-in catalog when
// no file is configured.
func (s *Seeder) loadCatalog() (*SeedCatalog, error) {
	if s.cfg.Seed.File == "" {
		return defaultCatalog(), nil
	}

	raw, err := os.ReadFile(s.cfg.Seed.File)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var catalog SeedCatalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &catalog, nil
}

// seedCatalog upserts permissions, roles and grants. Each statement is
// idempotent, so partial prior state is never corrupted.
func (s *Seeder) seedCatalog(catalog *SeedCatalog) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range catalog.Permissions {
			perm := models.Permission{
				Code:        p.Code,
				Name:        p.Name,
				Description: p.Description,
				Module:      p.Module,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoNothing: true,
			}).Create(&perm).Error; err != nil {
				return err
			}
		}

		for _, r := range catalog.Roles {
			role := models.Role{
				Name:        r.Name,
				Description: r.Description,
				Active:      true,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&role).Error; err != nil {
				return err
			}
			if role.ID == 0 {
				if err := tx.Where("name = ?", r.Name).First(&role).Error; err != nil {
					return err
				}
			}

			for _, code := range r.Permissions {
				var perm models.Permission
				if err := tx.Where("code = ?", code).First(&perm).Error; err != nil {
					return fmt.Errorf("seed grant %s -> %s: %w", r.Name, code, err)
				}
				grant := models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "role_id"}, {Name: "permission_id"}},
					DoNothing: true,
				}).Create(&grant).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// seedAdminUser creates the bootstrap administrator when missing
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var role models.Role
	if err := s.db.Where("name = ?", "administrador").First(&role).Error; err != nil {
		return fmt.Errorf("administrator role missing: %w", err)
	}

	hash, err := password.Hash(s.cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:     "admin",
		PasswordHash: hash,
		FullName:     "Administrador del Sistema",
		Email:        "admin@electoral.gov.ar",
		RoleID:       role.ID,
		Active:       true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("Bootstrap administrator created: admin")
	return nil
}

// defaultCatalog is the built-in role/permission matrix
func defaultCatalog() *SeedCatalog {
	return &SeedCatalog{
		Permissions: []SeedPermission{
			{Code: "padron.view", Name: "Ver padrón", Module: "padron"},
			{Code: "padron.create", Name: "Crear votantes", Module: "padron"},
			{Code: "padron.edit", Name: "Editar votantes", Module: "padron"},
			{Code: "padron.delete", Name: "Eliminar votantes", Module: "padron"},
			{Code: "padron.import", Name: "Importar CSV", Module: "padron"},
			{Code: "padron.export", Name: "Exportar CSV", Module: "padron"},
			{Code: "relevamiento.view", Name: "Ver relevamientos", Module: "relevamiento"},
			{Code: "relevamiento.manage", Name: "Gestionar relevamientos", Module: "relevamiento"},
			{Code: "dashboard.view", Name: "Ver estadísticas", Module: "dashboard"},
			{Code: "admin.users", Name: "Administrar usuarios", Module: "admin"},
			{Code: "admin.roles", Name: "Administrar roles", Module: "admin"},
		},
		Roles: []SeedRole{
			{
				Name:        "administrador",
				Description: "Acceso completo al sistema",
				Permissions: []string{
					"padron.view", "padron.create", "padron.edit", "padron.delete",
					"padron.import", "padron.export",
					"relevamiento.view", "relevamiento.manage",
					"dashboard.view", "admin.users", "admin.roles",
				},
			},
			{
				Name:        "consultor",
				Description: "Consulta de padrón y estadísticas",
				Permissions: []string{"padron.view", "relevamiento.view", "dashboard.view"},
			},
			{
				Name:        "encargado_relevamiento",
				Description: "Carga de relevamientos en territorio",
				Permissions: []string{"padron.view", "relevamiento.view", "relevamiento.manage", "dashboard.view"},
			},
		},
	}
}
