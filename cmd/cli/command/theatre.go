package command

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"watchroom/cmd/cli/command/client"
)

var theatreCmd = &cobra.Command{
	Use:   "theatre",
	Short: "Manage shared theatres",
}

var theatreMergeMode string

var theatreCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a theatre and become its host",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)

		var resp struct {
			Name       string `json:"name"`
			InviteCode string `json:"invite_code"`
			MergeMode  string `json:"merge_mode"`
		}
		err := api.Do("POST", "/api/v1/theatres", map[string]string{
			"name":       strings.Join(args, " "),
			"merge_mode": theatreMergeMode,
		}, &resp)
		if err != nil {
			return err
		}

		fmt.Printf("Created %q (%s mode)\nInvite code: %s\n", resp.Name, resp.MergeMode, resp.InviteCode)
		return nil
	},
}

var theatreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your theatres",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)

		var resp struct {
			Theatres []struct {
				Name        string `json:"name"`
				InviteCode  string `json:"invite_code"`
				MergeMode   string `json:"merge_mode"`
				MemberCount int    `json:"member_count"`
				MovieCount  int    `json:"movie_count"`
			} `json:"theatres"`
		}
		if err := api.Do("GET", "/api/v1/theatres", nil, &resp); err != nil {
			return err
		}

		for _, t := range resp.Theatres {
			fmt.Printf("%-10s %-20s %-12s %d member(s), %d movie(s)\n",
				t.InviteCode, t.Name, t.MergeMode, t.MemberCount, t.MovieCount)
		}
		return nil
	},
}

var theatreShowCmd = &cobra.Command{
	Use:   "show <invite-code>",
	Short: "Show a theatre's merged movie list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)

		var resp struct {
			Theatre struct {
				Name             string  `json:"name"`
				MergeMode        string  `json:"merge_mode"`
				LastPickedImdbID *string `json:"last_picked_imdb_id"`
			} `json:"theatre"`
			Members []struct {
				Username string `json:"username"`
				IsHost   bool   `json:"is_host"`
			} `json:"members"`
			Movies []struct {
				ImdbID  string   `json:"imdb_id"`
				Title   string   `json:"title"`
				Year    string   `json:"year"`
				Watched bool     `json:"watched"`
				AddedBy []string `json:"added_by"`
			} `json:"movies"`
		}
		if err := api.Do("GET", "/api/v1/theatres/"+url.PathEscape(args[0]), nil, &resp); err != nil {
			return err
		}

		fmt.Printf("%s (%s mode)\n", resp.Theatre.Name, resp.Theatre.MergeMode)
		names := make([]string, 0, len(resp.Members))
		for _, m := range resp.Members {
			name := m.Username
			if m.IsHost {
				name += " (host)"
			}
			names = append(names, name)
		}
		fmt.Printf("Members: %s\n\n", strings.Join(names, ", "))

		for _, movie := range resp.Movies {
			prefix := "  "
			if resp.Theatre.LastPickedImdbID != nil && movie.ImdbID == *resp.Theatre.LastPickedImdbID {
				prefix = "* " // tonight's pick
			}
			mark := " "
			if movie.Watched {
				mark = "x"
			}
			fmt.Printf("%s[%s] %-10s %s (%s) — %d holder(s)\n",
				prefix, mark, movie.ImdbID, movie.Title, movie.Year, len(movie.AddedBy))
		}
		return nil
	},
}

var theatreJoinCmd = &cobra.Command{
	Use:   "join <invite-code>",
	Short: "Join a theatre by invite code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)
		if err := api.Do("POST", "/api/v1/theatres/"+url.PathEscape(args[0])+"/join", nil, nil); err != nil {
			return err
		}
		fmt.Println("Joined")
		return nil
	},
}

var theatreShuffleCmd = &cobra.Command{
	Use:   "shuffle <invite-code>",
	Short: "Pick tonight's movie at random from the merged list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)

		var resp struct {
			PickedImdbID string `json:"picked_imdb_id"`
		}
		if err := api.Do("POST", "/api/v1/theatres/"+url.PathEscape(args[0])+"/shuffle", nil, &resp); err != nil {
			return err
		}
		fmt.Printf("Tonight's pick: %s\n", resp.PickedImdbID)
		return nil
	},
}

func init() {
	theatreCreateCmd.Flags().StringVar(&theatreMergeMode, "mode", "intersection", "merge mode: union, intersection or xor")

	theatreCmd.AddCommand(theatreCreateCmd, theatreListCmd, theatreShowCmd, theatreJoinCmd, theatreShuffleCmd)
	rootCmd.AddCommand(theatreCmd)
}
