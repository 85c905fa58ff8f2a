package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomrelay/internal/admin"
	"github.com/vovakirdan/roomrelay/internal/config"
)

var roomsAdminAddr string

// roomsCmd prints the rooms of a running relay.
var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List rooms and members of a running relay",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr := roomsAdminAddr
		if addr == "" {
			addr = config.Default().AdminAddr
		}

		client := &http.Client{Timeout: 5 * time.Second}
		list, err := admin.FetchRooms(cmd.Context(), client, addr)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		admin.WriteRoomTable(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roomsCmd)
	roomsCmd.Flags().StringVar(&roomsAdminAddr, "admin-addr", "", "admin API address of the running relay")
}
