package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/brimblehq/licenses/internal/types"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen, color.Bold)
	red    = color.New(color.FgRed)
	gray   = color.New(color.FgHiBlack)
	yellow = color.New(color.FgYellow)
)

func RenderView(w io.Writer, view View) {
	fmt.Fprintf(w, "Licenses from %q:\n", view.Source)

	if len(view.Licenses) == 0 {
		fmt.Fprintln(w, NoLicensesMessage)
		return
	}

	for _, lv := range view.Licenses {
		fmt.Fprintln(w)

		if !lv.Readable {
			red.Fprintln(w, "Unreadable license key")
			fmt.Fprintf(w, "Problem: %s\n", lv.Problem)
			gray.Fprintf(w, "Key: %s\n", lv.Key)
			continue
		}

		bold.Fprint(w, lv.Product)
		if lv.Active {
			green.Fprint(w, " (active)")
		}
		fmt.Fprintln(w)

		fmt.Fprintf(w, "Name: %s\n", lv.Name)
		fmt.Fprintf(w, "Email: %s\n", lv.Email)
		fmt.Fprintf(w, "Company: %s\n", lv.Company)
		fmt.Fprintf(w, "Expires: %s\n", lv.Expires)
		if lv.Problem != "" {
			yellow.Fprintf(w, "Not valid: %s\n", lv.Problem)
		}
		gray.Fprintf(w, "Key: %s\n", lv.Key)
	}
}

func RenderStatus(w io.Writer, active *types.LicenseRecord) {
	if active == nil {
		red.Fprintln(w, "No valid license")
		return
	}

	green.Fprint(w, "Licensed")
	fmt.Fprintf(w, " to %s (%s), %s, expires %s\n", active.Name, active.Email, active.Product, FormatExpiry(active.Expires))
}

func RenderAddError(w io.Writer, err error) {
	red.Fprintf(w, "Could not add license key:\n%v\n", err)
}
