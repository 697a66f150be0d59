package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"watchroom/cmd/cli/command/client"
)

var (
	loginUsername string
	loginPassword string
	loginEmail    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, "")

		var resp struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			Username     string `json:"username"`
		}
		err := api.Do("POST", "/api/v1/auth/login", map[string]string{
			"username": loginUsername,
			"password": loginPassword,
		}, &resp)
		if err != nil {
			return err
		}

		fmt.Printf("Logged in as %s\n", resp.Username)
		fmt.Printf("export WATCHROOM_TOKEN=%s\n", resp.AccessToken)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, "")

		var resp struct {
			Message string `json:"message"`
		}
		err := api.Do("POST", "/api/v1/auth/register", map[string]string{
			"username": loginUsername,
			"password": loginPassword,
			"email":    loginEmail,
		}, &resp)
		if err != nil {
			return err
		}

		fmt.Println(resp.Message)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
		cmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
		cmd.MarkFlagRequired("username")
		cmd.MarkFlagRequired("password")
	}
	registerCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email address")
	registerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd, registerCmd)
}
