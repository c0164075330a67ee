// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"net/http"

	"umd-launcher/internal/api"
	"umd-launcher/internal/launcher"
	"umd-launcher/internal/web"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a status page and JSON API for the launcher",
	Long: `Starts a local HTTP server exposing the launcher's status (GET
/api/status), an install trigger (POST /api/install) and a small status
page. Intended for a single operator on the same machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		router := mux.NewRouter()
		api.RegisterRoutes(router, func() (*launcher.Launcher, error) {
			return newLauncher()
		})

		// Static page last so API routes win.
		router.PathPrefix("/").Handler(http.FileServer(web.GetFileSystem()))

		addr := fmt.Sprintf("127.0.0.1:%d", servePort)
		statusColor.Printf("Serving launcher status on http://%s\n", addr)
		return http.ListenAndServe(addr, router)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on")
}
