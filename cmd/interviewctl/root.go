package main

import (
	"fmt"
	"log"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const app = "interviewctl"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "interviewctl maintains the interview bot database: migrate, reset, fix, inspect and export results",
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for flag, env := range map[string]string{
		"db-host":     "DB_HOST",
		"db-port":     "DB_PORT",
		"db-user":     "DB_USER",
		"db-password": "DB_PASSWORD",
		"db-name":     "DB_NAME",
	} {
		if err := viper.BindEnv(flag, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("db-host", "localhost")
	viper.SetDefault("db-port", "5432")
	viper.SetDefault("db-user", "postgres")
	viper.SetDefault("db-password", "postgres")
	viper.SetDefault("db-name", "interviewbot")

	rootCmd.PersistentFlags().String("db-host", "", "database host")
	rootCmd.PersistentFlags().String("db-name", "", "database name")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	for _, flag := range []string{"db-host", "db-name", "debug", "json"} {
		viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}
}

func newLogger() *zap.Logger {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	return zlog
}

func openDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		viper.GetString("db-host"), viper.GetString("db-port"),
		viper.GetString("db-user"), viper.GetString("db-password"),
		viper.GetString("db-name"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
