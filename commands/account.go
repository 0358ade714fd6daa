package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debasish218/pg-manager/auth"
	"github.com/debasish218/pg-manager/services"
)

// RegisterCmd creates (or renames) the account for a phone number and prints
// a bearer token for it.
func RegisterCmd() *cobra.Command {
	var phone, name, pgName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a PG owner account and print its bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			account, err := services.NewAccountService(db).Register(cmd.Context(), phone, name, pgName)
			if err != nil {
				return err
			}
			token, expires, err := auth.NewJWTManager(cfg.JWT).Generate(account.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %d (%s)\ntoken: %s\nexpires: %s\n",
				account.ID, account.PgName, token, expires.Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "owner phone number")
	cmd.Flags().StringVar(&name, "name", "", "owner name")
	cmd.Flags().StringVar(&pgName, "pg-name", "", "name of the PG")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("pg-name")
	return cmd
}

// TokenCmd issues a bearer token for an existing account.
func TokenCmd() *cobra.Command {
	var accountID uint
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID == 0 {
				return errors.New("--account is required")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if _, err := services.NewAccountService(db).Get(cmd.Context(), accountID); err != nil {
				return err
			}
			token, _, err := auth.NewJWTManager(cfg.JWT).Generate(accountID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().UintVar(&accountID, "account", 0, "account id")
	return cmd
}
