package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	"github.com/saeidalz13/battleship-solo/models/match"
)

const help = `commands:
  <address>  attack, e.g. B7
  unsunk     opponent ships still afloat
  afloat     your ships still afloat
  foe        opponent board
  own        your board
  quit       leave the game`

type console struct {
	in   *bufio.Scanner
	out  io.Writer
	game *match.Game
}

func main() {
	seed := flag.Uint64("seed", 0, "game seed, 0 picks one from the clock")
	name := flag.String("name", "Player", "your name")
	verbose := flag.Bool("v", false, "log the opponent's reasoning")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: time.TimeOnly})
	logger.SetLevel(log.WarnLevel)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	c := &console{in: bufio.NewScanner(os.Stdin), out: os.Stdout}
	playerName, err := c.chooseName(*name)
	if err != nil {
		logger.Fatal("no player name", "err", err)
	}

	c.game, err = match.NewGame(
		fmt.Sprintf("%d", *seed),
		match.NewRand(*seed),
		match.WithLogger(logger),
		match.WithHumanName(playerName),
	)
	if err != nil {
		logger.Fatal("failed to create game", "err", err)
	}

	if err := c.run(); err != nil && !errors.Is(err, io.EOF) {
		logger.Fatal("game aborted", "err", err)
	}
}

func (c *console) prompt(msg string) (string, error) {
	fmt.Fprint(c.out, msg)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// chooseName asks again while the name is the opponent's.
func (c *console) chooseName(name string) (string, error) {
	for name == match.CpuName {
		fmt.Fprintf(c.out, "%s is the name of your opponent. Please enter a different name.\n", match.CpuName)
		line, err := c.prompt("enter your name: ")
		if err != nil {
			return "", err
		}
		name = line
	}
	return name, nil
}

func (c *console) run() error {
	if err := c.placeFleet(); err != nil {
		return err
	}

	first, err := c.game.Start()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "coin toss: %s shoots first\n%s\n", first, help)

	for !c.game.IsFinished() {
		if c.game.Turn() == mb.PlayerCpu {
			shot, err := c.game.CpuTurn()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s fires at %s: %s%s\n", match.CpuName, shot.Address, shot.Result, sunkSuffix(shot.Report))
			continue
		}

		quit, err := c.humanTurn()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}

	winner, _ := c.game.Winner()
	if winner == mb.PlayerHuman {
		fmt.Fprintf(c.out, "you win in %d shots\n", len(c.game.Human().Targeted()))
	} else {
		fmt.Fprintf(c.out, "%s wins in %d shots\n", match.CpuName, len(c.game.Cpu().Targeted()))
	}
	return mb.Render(c.out, c.game.Cpu().Board(), true)
}

// placeFleet asks for every ship until the placement is legal. "auto"
// places the remaining ships randomly.
func (c *console) placeFleet() error {
	fleet := c.game.Human().Fleet()
	for !fleet.AllPlaced() {
		if err := mb.Render(c.out, c.game.Human().Board(), true); err != nil {
			return err
		}

		kind := fleet.Unplaced()[0]
		line, err := c.prompt(fmt.Sprintf("place %s (%d), e.g. \"B2 E\" or \"auto\": ", kind, kind.Length()))
		if err != nil {
			return err
		}

		if strings.EqualFold(line, "auto") {
			if err := c.game.AutoPlaceHuman(); err != nil {
				return err
			}
			break
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			fmt.Fprintln(c.out, "expected an address and a direction")
			continue
		}
		start, err := mb.ParseAddress(strings.ToUpper(fields[0]))
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		d, err := mb.ParseDirection(fields[1])
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		if err := c.game.PlaceHumanShip(kind, start, d); err != nil {
			fmt.Fprintln(c.out, err)
		}
	}
	return mb.Render(c.out, c.game.Human().Board(), true)
}

// humanTurn re-prompts until the player has fired one valid shot.
func (c *console) humanTurn() (bool, error) {
	for {
		line, err := c.prompt("> ")
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return true, nil
		case "help":
			fmt.Fprintln(c.out, help)
			continue
		case "unsunk":
			fmt.Fprintln(c.out, kindList(c.game.Cpu().Fleet().Floating()))
			continue
		case "afloat":
			fmt.Fprintln(c.out, kindList(c.game.Human().Fleet().Floating()))
			continue
		case "foe":
			if err := mb.Render(c.out, c.game.Cpu().Board(), false); err != nil {
				return false, err
			}
			continue
		case "own":
			if err := mb.Render(c.out, c.game.Human().Board(), true); err != nil {
				return false, err
			}
			continue
		}

		addr, err := mb.ParseAddress(strings.ToUpper(line))
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}

		report, err := c.game.HumanAttack(addr)
		if errors.Is(err, cerr.ErrAlreadyTargeted) {
			fmt.Fprintf(c.out, "%s was already targeted\n", addr)
			continue
		}
		if err != nil {
			return false, err
		}

		fmt.Fprintf(c.out, "%s: %s%s\n", addr, report.Result, sunkSuffix(report))
		return false, nil
	}
}

func sunkSuffix(report mb.Report) string {
	if !report.IsSinking() {
		return ""
	}
	return fmt.Sprintf(", %s sunk", report.Sunk)
}

func kindList(kinds []mb.ShipKind) string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.String())
	}
	return strings.Join(names, ", ")
}
