package command

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"watchroom/cmd/cli/command/client"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage your personal watchlist",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)

		var resp struct {
			Items []struct {
				ImdbID  string `json:"imdb_id"`
				Title   string `json:"title"`
				Year    string `json:"year"`
				Watched bool   `json:"watched"`
			} `json:"items"`
			Total int `json:"total"`
		}
		if err := api.Do("GET", "/api/v1/watchlist", nil, &resp); err != nil {
			return err
		}

		for _, item := range resp.Items {
			mark := " "
			if item.Watched {
				mark = "x"
			}
			fmt.Printf("[%s] %-10s %s (%s)\n", mark, item.ImdbID, item.Title, item.Year)
		}
		fmt.Printf("%d movie(s)\n", resp.Total)
		return nil
	},
}

var (
	addTitle string
	addYear  string
)

var watchlistAddCmd = &cobra.Command{
	Use:   "add <imdb-id>",
	Short: "Add a movie to your watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)

		// Look the movie up first so the stored entry has real metadata
		title, year := addTitle, addYear
		if title == "" {
			var details struct {
				Title string `json:"Title"`
				Year  string `json:"Year"`
			}
			if err := api.Do("GET", "/api/v1/movies/"+url.PathEscape(args[0]), nil, &details); err != nil {
				return fmt.Errorf("look up movie: %w", err)
			}
			title, year = details.Title, details.Year
		}

		err := api.Do("POST", "/api/v1/watchlist", map[string]string{
			"imdb_id": args[0],
			"title":   title,
			"year":    year,
		}, nil)
		if err != nil {
			return err
		}

		fmt.Printf("Added %s (%s)\n", title, year)
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <imdb-id>",
	Short: "Remove a movie from your watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)
		if err := api.Do("DELETE", "/api/v1/watchlist/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		fmt.Println("Removed")
		return nil
	},
}

var watchedFlag bool

var watchlistWatchedCmd = &cobra.Command{
	Use:   "watched <imdb-id>",
	Short: "Mark a movie watched or unwatched",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)
		err := api.Do("PATCH", "/api/v1/watchlist/"+url.PathEscape(args[0])+"/watched",
			map[string]bool{"watched": watchedFlag}, nil)
		if err != nil {
			return err
		}
		fmt.Println("Updated")
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(apiURL, token)

		query := url.QueryEscape(args[0])
		var resp struct {
			Results []struct {
				Title  string `json:"Title"`
				Year   string `json:"Year"`
				ImdbID string `json:"imdbID"`
			} `json:"results"`
		}
		if err := api.Do("GET", "/api/v1/movies/search?q="+query, nil, &resp); err != nil {
			return err
		}

		for _, r := range resp.Results {
			fmt.Printf("%-10s %s (%s)\n", r.ImdbID, r.Title, r.Year)
		}
		return nil
	},
}

func init() {
	watchlistAddCmd.Flags().StringVar(&addTitle, "title", "", "movie title (fetched from the API when omitted)")
	watchlistAddCmd.Flags().StringVar(&addYear, "year", "", "release year")
	watchlistWatchedCmd.Flags().BoolVar(&watchedFlag, "watched", true, "watched state to set")

	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd, watchlistWatchedCmd)
	rootCmd.AddCommand(watchlistCmd, searchCmd)
}
