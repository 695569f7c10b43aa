/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/hrops/forms-gateway/internal/config"
	"github.com/hrops/forms-gateway/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run database migrations to create or update database schema.
This command will:
- Create the forms, sync_logs and approval_history tables if they don't exist
- Update table schemas if needed
- Create indexes for optimal query performance

With --secondary, the mirror database schema is migrated as well so the
reporting side can consume mirrored rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 2. 迁移主库
		if err := migrateOne("primary", cfg.PrimaryDatabase); err != nil {
			return err
		}

		// 3. 按需迁移镜像库
		withSecondary, _ := cmd.Flags().GetBool("secondary")
		if withSecondary {
			if !cfg.SecondaryDatabase.Enabled {
				return fmt.Errorf("secondary database is not enabled in config")
			}
			if err := migrateOne("secondary", cfg.SecondaryDatabase); err != nil {
				return err
			}
		}

		log.Println("Database migrations completed successfully!")
		return nil
	},
}

// migrateOne 连接并迁移一个库
func migrateOne(name string, dbCfg config.DatabaseConfig) error {
	log.Printf("Connecting to %s database: %s@%s:%d/%s",
		name, dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.DBName)
	db, err := database.Connect(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect %s database: %w", name, err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	}()

	log.Printf("Running %s database migrations...", name)
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", name, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	// 添加配置标志
	migrateCmd.Flags().String("config", "", "Config file path (default: search in current directory, ./config, or $HOME/.forms-gateway)")
	migrateCmd.Flags().Bool("secondary", false, "Also migrate the secondary (mirror) database")
}
