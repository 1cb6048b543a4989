package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}

	switch v := data.(type) {
	case *session.User:
		o.printUser(v)
	case *models.Profile:
		o.printProfile(v)
	case *models.Team:
		o.printTeam(v)
	case []models.Team:
		o.printTeams(v)
	case *models.Player:
		o.printPlayers([]models.Player{*v})
	case []models.Player:
		o.printPlayers(v)
	case []models.Country:
		o.printCountries(v)
	default:
		o.printJSON(data)
	}
}

func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
		return
	}
	fmt.Fprintln(o.w, msg)
}

// Redirect reports where the access guard sent the user.
func (o *Output) Redirect(target string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"redirect": target})
		return
	}
	fmt.Fprintf(o.w, "redirect: %s\n", target)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printUser(u *session.User) {
	if u == nil {
		fmt.Fprintln(o.w, "Not signed in")
		return
	}
	fmt.Fprintf(o.w, "User: %s\n", u)
	fmt.Fprintf(o.w, "ID: %d\n", u.UID)
	fmt.Fprintf(o.w, "Team: %s\n", teamRef(u.TeamID))
}

func (o *Output) printProfile(p *models.Profile) {
	fmt.Fprintf(o.w, "User %d <%s>\n", p.UID, p.Email)
	fmt.Fprintf(o.w, "Role: %s\n", p.Role)
	fmt.Fprintf(o.w, "Team: %s\n", teamRef(p.TeamID))
}

func (o *Output) printTeam(t *models.Team) {
	fmt.Fprintf(o.w, "Team %d: %s\n", t.ID, t.Name)
	fmt.Fprintf(o.w, "Country: %s\n", t.Country)
	fmt.Fprintf(o.w, "Discipline: %s\n", t.Discipline)
	if t.LogoURL != nil {
		fmt.Fprintf(o.w, "Logo: %s\n", *t.LogoURL)
	}
}

func (o *Output) printTeams(teams []models.Team) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOUNTRY\tDISCIPLINE")
	for _, t := range teams {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Country, t.Discipline)
	}
	_ = tw.Flush()
}

func (o *Output) printPlayers(players []models.Player) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tNAME\tAGE\tPOSITION\tLATERALITY\tNATIONALITY")
	for _, p := range players {
		name := strings.TrimSpace(p.Name + " " + p.Surname)
		if p.Nickname != "" {
			name += fmt.Sprintf(" (%s)", p.Nickname)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, p.Number, name, p.Age, p.Position, dash(p.Laterality), p.Nationality)
	}
	_ = tw.Flush()
}

func (o *Output) printCountries(list []models.Country) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Code, c.Name, c.FlagURL)
	}
	_ = tw.Flush()
}

func teamRef(id *int) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
