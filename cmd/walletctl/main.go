package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	postgresRepo "github.com/2025-demo-01/svc-wallet/internal/adapter/repository/postgres"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/config"
	"github.com/2025-demo-01/svc-wallet/internal/infrastructure/postgres"
	infraredis "github.com/2025-demo-01/svc-wallet/internal/infrastructure/redis"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletctl",
		Short: "Wallet operations tool",
		Long:  `A command line interface for operating the wallet consumption pipeline.`,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(emitCmd())
	rootCmd.AddCommand(verifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations applied")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if err := postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				fmt.Printf("Rollback failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Migrations rolled back")
		},
	})

	return cmd
}

// emitCmd appends synthetic trades to the trade stream for load and smoke
// testing.
func emitCmd() *cobra.Command {
	var (
		count  int
		symbol string
		price  string
	)

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit synthetic trades onto the trade stream",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			ctx := context.Background()

			client, err := infraredis.NewClient(ctx, cfg.RedisURL)
			if err != nil {
				fmt.Printf("Failed to connect to redis: %v\n", err)
				os.Exit(1)
			}
			defer client.Close()

			base := time.Now().UnixMilli()
			for i := 0; i < count; i++ {
				side := "buy"
				if i%2 == 1 {
					side = "sell"
				}

				trade := map[string]any{
					"trade_id": fmt.Sprintf("synthetic-%d-%d", base, i),
					"order_id": fmt.Sprintf("order-%d", i),
					"symbol":   symbol,
					"side":     side,
					"price":    price,
					"qty":      strconv.Itoa(1 + i%5),
					"ts":       time.Now().UnixMilli(),
				}

				body, _ := json.Marshal(trade)
				err := client.XAdd(ctx, &redis.XAddArgs{
					Stream: cfg.TradesStream,
					Values: map[string]any{"payload": body},
				}).Err()
				if err != nil {
					fmt.Printf("Failed to emit trade %d: %v\n", i, err)
					os.Exit(1)
				}
			}

			fmt.Printf("Emitted %d trades to %s\n", count, cfg.TradesStream)
		},
	}

	cmd.Flags().IntVar(&count, "count", 100, "Number of trades to emit")
	cmd.Flags().StringVar(&symbol, "symbol", "BTC-USDT", "Trade symbol")
	cmd.Flags().StringVar(&price, "price", "27100.5", "Trade price")

	return cmd
}

// verifyCmd recomputes every account balance from the ledger and reports
// drift.
func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that balances equal the sum of ledger deltas",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			ctx := context.Background()

			pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
			if err != nil {
				fmt.Printf("Failed to connect to postgres: %v\n", err)
				os.Exit(1)
			}
			defer pool.Close()

			reconUC := usecase.NewReconciliationUseCase(postgresRepo.NewLedgerRepository(pool))

			drifts, err := reconUC.CheckBalances(ctx)
			if err != nil {
				fmt.Printf("Verification failed: %v\n", err)
				os.Exit(1)
			}

			if len(drifts) == 0 {
				fmt.Println("Verification PASSED: all balances match ledger sums")
				return
			}

			fmt.Printf("Verification FAILED: %d account(s) drifted\n", len(drifts))
			for _, d := range drifts {
				fmt.Printf("  %s balance=%s ledger_sum=%s\n", d.AccountID, d.Balance, d.LedgerSum)
			}
			os.Exit(1)
		},
	}
}
