package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/erpbridge/xml-erp-bridge/internal/auth"
	"github.com/erpbridge/xml-erp-bridge/internal/config"
)

var (
	tokenName string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Mint a service token for AUTH_MODE=jwt",
	Long: `Mint an HS256 bearer token signed with AUTH_JWT_SECRET. Automation clients
use it in place of a Google ID token when the server runs with AUTH_MODE=jwt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if len(cfg.AuthJWTSecret) < 32 {
			return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters")
		}

		token, err := mintToken(cfg.AuthJWTSecret, args[0], tokenName, tokenTTL, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func mintToken(secret, email, name string, ttl time.Duration, now time.Time) (string, error) {
	claims := auth.ServiceClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    "xmlbridge",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return auth.NewJWTVerifier(secret).Sign(claims)
}

func init() {
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Display name carried in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
