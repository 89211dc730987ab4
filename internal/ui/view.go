package ui

import (
	"time"

	"github.com/brimblehq/licenses/internal/license"
	"github.com/brimblehq/licenses/internal/manager"
)

const NoLicensesMessage = "No license keys found."

type LicenseView struct {
	Product  string
	Active   bool
	Readable bool
	Problem  string
	Name     string
	Email    string
	Company  string
	Expires  string
	Key      string
}

type View struct {
	Source   string
	Licenses []LicenseView
}

func BuildView(source string, entries []manager.Entry) View {
	view := View{Source: source}

	for _, entry := range entries {
		lv := LicenseView{
			Active: entry.Active,
			Key:    string(entry.Key),
		}

		if entry.DecodeErr != nil {
			lv.Problem = entry.DecodeErr.Error()
			view.Licenses = append(view.Licenses, lv)
			continue
		}

		lv.Readable = true
		lv.Product = entry.Record.Product
		lv.Name = entry.Record.Name
		lv.Email = entry.Record.Email
		lv.Company = entry.Record.Company
		lv.Expires = FormatExpiry(entry.Record.Expires)
		if entry.Invalid != nil {
			lv.Problem = entry.Invalid.Error()
		}

		view.Licenses = append(view.Licenses, lv)
	}

	return view
}

// FormatExpiry turns YYYYMMDD into DD-MM-YYYY.
func FormatExpiry(expires string) string {
	t, err := time.Parse(license.DateLayout, expires)
	if err != nil {
		return expires
	}
	return t.Format("02-01-2006")
}
