// Command scathanna-server runs the authoritative game server: listens for
// connections, runs the tick loop, and optionally serves an interactive
// admin console on stdin.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/scathanna-go/scathanna/internal/server"
	"github.com/scathanna-go/scathanna/internal/worldstate"
)

func main() {
	addr := flag.String("addr", ":3344", "address to listen on")
	assetsRoot := flag.String("assets", ".", "assets directory root (contains maps/)")
	maps := flag.String("maps", "", "comma-separated map list, first is the starting map (required)")
	gameType := flag.String("gametype", "deathmatch", "deathmatch|teammatch")
	admin := flag.Bool("admin", false, "enable the interactive admin console on stdin")
	flag.Parse()

	if err := run(*addr, *assetsRoot, *maps, *gameType, *admin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr, assetsRoot, maps, gameType string, admin bool) error {
	if maps == "" {
		return fmt.Errorf("scathanna-server: -maps is required, e.g. -maps=arena1,arena2")
	}
	maplist := strings.Split(maps, ",")

	gt, err := worldstate.ParseGameType(gameType)
	if err != nil {
		return fmt.Errorf("scathanna-server: %w", err)
	}

	log.Printf("scathanna-server: listening on %s, assets=%s, maps=%s", addr, assetsRoot, maps)
	return server.ListenAndServe(server.Options{
		Addr:         addr,
		AssetsRoot:   assetsRoot,
		Maplist:      maplist,
		GameType:     gt,
		AdminConsole: admin,
	})
}
