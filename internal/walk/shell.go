// Package walk is a terminal front end for building one walking route.
package walk

import (
	"bufio"
	"campus-route-service/internal/domain"
	"campus-route-service/internal/ports"
	"campus-route-service/internal/services"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const help = `commands:
  places          list catalogued places
  add <name>      add a catalogued place
  search <text>   add free text for the provider to resolve
  gps             add the current position
  calc            calculate walking directions
  list            show the route
  clear           start a new route
  quit            exit
`

type Shell struct {
	Orchestrator *services.Orchestrator
	GPS          ports.GeolocationSource
	Out          io.Writer
}

// Run reads commands from in until quit or end of input.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(s.Out, "> ")
	for sc.Scan() {
		quit, err := s.Exec(ctx, sc.Text())
		if err != nil {
			fmt.Fprintf(s.Out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(s.Out, "> ")
	}
	return sc.Err()
}

// Exec runs a single command line.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprint(s.Out, help)
	case "places":
		for _, p := range s.Orchestrator.Places() {
			fmt.Fprintf(s.Out, "  %s (%s)\n", p.Name, domain.FormatLatLng(p.Coordinates()))
		}
	case "add":
		if err := s.Orchestrator.AddPlace(arg); err != nil {
			return false, err
		}
		s.printList()
	case "search":
		if err := s.Orchestrator.AddSearch(arg); err != nil {
			return false, err
		}
		s.printList()
	case "gps":
		if err := s.Orchestrator.AddCurrentLocation(ctx, s.GPS); err != nil {
			var ge *domain.GeolocationError
			if errors.As(err, &ge) {
				return false, errors.New(ge.Message)
			}
			return false, err
		}
		s.printList()
	case "calc":
		out, err := s.Orchestrator.Calculate(ctx)
		if err != nil {
			var pe *domain.ProviderError
			if errors.As(err, &pe) {
				return false, fmt.Errorf("Directions request failed due to %s", pe.Status)
			}
			return false, err
		}
		fmt.Fprint(s.Out, out.Text)
		fmt.Fprintf(s.Out, "Total: %s, %s\n",
			domain.NewDistance(out.Itinerary.TotalDistanceMeters()).Text,
			domain.NewDuration(out.Itinerary.TotalDurationSeconds()).Text)
	case "list":
		s.printList()
	case "clear":
		s.Orchestrator.Clear()
		fmt.Fprintln(s.Out, "route cleared")
	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}
	return false, nil
}

func (s *Shell) printList() {
	items := s.Orchestrator.StopList()
	if len(items) == 0 {
		fmt.Fprintln(s.Out, "  (empty)")
		return
	}
	for i, it := range items {
		fmt.Fprintf(s.Out, "  %d. %s\n", i+1, it.Label)
	}
}
