package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

// FetchRooms reads the room listing from a running admin API.
func FetchRooms(ctx context.Context, client *http.Client, adminAddr string) (proto.RoomList, error) {
	base := adminAddr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(base, "/")+"/api/rooms", nil)
	if err != nil {
		return proto.RoomList{}, fmt.Errorf("admin: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return proto.RoomList{}, fmt.Errorf("admin: fetch rooms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr proto.Error
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return proto.RoomList{}, fmt.Errorf("admin: fetch rooms: %s: %s", resp.Status, apiErr.Error)
	}

	var list proto.RoomList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return proto.RoomList{}, fmt.Errorf("admin: decode rooms: %w", err)
	}
	return list, nil
}

// WriteRoomTable prints one row per member; empty rooms get a single row.
func WriteRoomTable(w io.Writer, list proto.RoomList) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Room", "ID", "Nickname", "Color", "History"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, room := range list.Rooms {
		history := strconv.Itoa(room.HistorySize)
		if len(room.Members) == 0 {
			table.Append([]string{room.Name, "-", "-", "-", history})
			continue
		}
		for _, m := range room.Members {
			table.Append([]string{room.Name, strconv.FormatUint(uint64(m.ID), 10), m.Nickname, m.Color, history})
		}
	}
	table.Render()

	_, _ = fmt.Fprintf(w, "%d rooms, %d clients\n", len(list.Rooms), list.Clients)
}
