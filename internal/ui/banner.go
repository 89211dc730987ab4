package ui

import (
	"fmt"
	"io"
)

func PrintBanner(w io.Writer, onlyBanner ...bool) {
	banner := `
    ██████╗ ██████╗ ██╗███╗   ███╗██████╗ ██╗     ███████╗
    ██╔══██╗██╔══██╗██║████╗ ████║██╔══██╗██║     ██╔════╝
    ██████╔╝██████╔╝██║██╔████╔██║██████╔╝██║     █████╗  
    ██╔══██╗██╔══██╗██║██║╚██╔╝██║██╔══██╗██║     ██╔══╝  
    ██████╔╝██║  ██║██║██║ ╚═╝ ██║██████╔╝███████╗███████╗
    ╚═════╝ ╚═╝  ╚═╝╚═╝╚═╝     ╚═╝╚═════╝ ╚══════╝╚══════╝
    `
	onlyBannerValue := false
	if len(onlyBanner) > 0 {
		onlyBannerValue = onlyBanner[0]
	}

	if !onlyBannerValue {
		usage := `
        Usage:
            licenses list
            licenses add [key]
            licenses status

        Examples:
            licenses add eJyrVkrLz1eyUkpKLFLSUcrPSykCAAA=
            licenses add < license.txt

        For support: hello@brimble.app
        Documentation: https://docs.brimble.app
        `
		fmt.Fprintf(w, "\033[1;36m%s\033[0m\n%s\n", banner, usage)
		return
	}

	fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", banner)
}
