package domain

import "strings"

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
