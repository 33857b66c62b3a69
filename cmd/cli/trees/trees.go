package trees

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/family-tree-api/cmd/cli/config"
	"github.com/crucial707/family-tree-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// Init Trees
// ==========================
func InitTrees(rootCmd *cobra.Command) {

	treesCmd := &cobra.Command{
		Use:   "trees",
		Short: "Manage family trees",
	}

	treesCmd.AddCommand(
		listTreesCmd(),
		createTreeCmd(),
		getTreeCmd(),
		deleteTreeCmd(),
	)

	rootCmd.AddCommand(treesCmd)
}

// ==========================
// LIST
// ==========================
func listTreesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your trees",
		Run: func(cmd *cobra.Command, args []string) {

			token, err := config.LoadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/trees", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			var out struct {
				Trees []struct {
					ID              int       `json:"id"`
					Name            string    `json:"name"`
					BackgroundImage string    `json:"background_image"`
					UpdatedAt       time.Time `json:"updated_at"`
				} `json:"trees"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				fmt.Println(err)
				return
			}

			rows := make([][]interface{}, 0, len(out.Trees))
			for _, t := range out.Trees {
				rows = append(rows, []interface{}{t.ID, t.Name, t.BackgroundImage, t.UpdatedAt.Format(time.RFC3339)})
			}
			output.RenderTable([]string{"ID", "Name", "Background", "Updated"}, rows)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createTreeCmd() *cobra.Command {

	var name string
	var background string
	var anonymous bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tree",
		Run: func(cmd *cobra.Command, args []string) {

			payload := map[string]interface{}{
				"name": name,
			}
			if background != "" {
				payload["background_image"] = background
			}
			body, _ := json.Marshal(payload)

			path := "/trees"
			if anonymous {
				path = "/trees/anonymous"
			}

			req, _ := http.NewRequest("POST", config.APIURL()+path, bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			// Token is optional: without one the tree is created anonymously.
			if token, err := config.LoadToken(); err == nil && !anonymous {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Tree name")
	cmd.Flags().StringVar(&background, "background", "", "Background image selector")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Create the tree without an owner")

	return cmd
}

// ==========================
// GET
// ==========================
func getTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a tree",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			req, _ := http.NewRequest("GET", config.APIURL()+"/trees/"+args[0], nil)
			if token, err := config.LoadToken(); err == nil {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp)
		},
	}
}

// ==========================
// DELETE
// ==========================
func deleteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tree you own",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			token, err := config.LoadToken()
			if err != nil {
				fmt.Println("Please login first")
				return
			}

			req, _ := http.NewRequest("DELETE", config.APIURL()+"/trees/"+args[0], nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Println(err)
				return
			}
			defer resp.Body.Close()

			printJSON(resp)
		},
	}
}

func printJSON(resp *http.Response) {
	var out any
	json.NewDecoder(resp.Body).Decode(&out)
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
