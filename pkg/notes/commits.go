package notes

import (
	"context"
	"strings"

	"github.com/aretw0/notekeep/pkg/core"
)

// Footer trails every commit message produced by notekeep.
const Footer = "Powered-by: notekeep"

// Commit types for semantic commit messages.
const (
	CommitTypeFeat  = "feat"
	CommitTypeFix   = "fix"
	CommitTypeDocs  = "docs"
	CommitTypeChore = "chore"
)

// FormatCommitMessage builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Powered-by: notekeep
func FormatCommitMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(" + scope + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(body))
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)
	return sb.String()
}

// AppendFooter adds the footer to a free-form message unless present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, Footer) {
		return msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if !strings.HasSuffix(msg, "\n\n") {
		msg += "\n"
	}
	return msg + Footer
}

// withReason describes a mutation for versioned stores. A reason already
// carried by ctx wins and only gets the footer.
func withReason(ctx context.Context, scope, op, id string) context.Context {
	if msg := core.ChangeReason(ctx, ""); msg != "" {
		return context.WithValue(ctx, core.ChangeReasonKey, AppendFooter(msg))
	}
	ctype := CommitTypeDocs
	if op == "create" || op == "add" {
		ctype = CommitTypeFeat
	}
	subject := op + " " + strings.TrimSuffix(scope, "s") + " " + id
	return context.WithValue(ctx, core.ChangeReasonKey, FormatCommitMessage(ctype, scope, subject, ""))
}
