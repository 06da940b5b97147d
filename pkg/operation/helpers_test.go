package operation

import (
	"context"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

type createUser struct {
	Name string `json:"name" validate:"required"`
	Age  int    `json:"age"`
}

type listUsers struct {
	Limit  int      `json:"limit" validate:"min=1,max=100"`
	Offset int      `json:"offset"`
	Roles  []string `json:"roles"`
	Filter filter   `json:"filter"`
}

func (q *listUsers) SetDefaults() {
	q.Limit = 20
	q.Roles = []string{"member"}
}

type filter struct {
	Email string `json:"email" validate:"omitempty,email"`
	Team  string `json:"team" validate:"omitempty,min=2"`
}

type renameUser struct {
	ID   string `json:"id" validate:"required,uuid"`
	Name string `json:"name" validate:"required"`
}

func (r *renameUser) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type noFactory struct {
	X int `json:"x"`
}

type undeclared struct{}

func init() {
	MustDeclareCommand[createUser]("CreateUser", "registers a user")
	MustDeclareQuery[listUsers]("ListUsers", "pages through users")
	MustDeclare[renameUser](Descriptor{
		Type:       "RenameUser",
		Kind:       KindCommand,
		Exceptions: CommandExceptions,
		Version:    semver.MustParse("1.2.0"),
	})
	MustDeclare[noFactory](Descriptor{Type: "NoFactory"})
}

// recordingLogger captures execution events for assertions.
type recordingLogger struct {
	mu        sync.Mutex
	successes []SuccessEvent
	failures  []FailureEvent
}

func (l *recordingLogger) Succeeded(_ context.Context, e SuccessEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.successes = append(l.successes, e)
}

func (l *recordingLogger) Failed(_ context.Context, e FailureEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = append(l.failures, e)
}

func newCreateUserBuilder(executor func(context.Context, createUser) (string, error), logger ExecutionLogger) *Builder[createUser, string] {
	opts := []BuilderOption[createUser, string]{WithLogger[createUser, string](logger)}
	if executor != nil {
		opts = append(opts, WithExecutorFunc(executor))
	}
	return MustBuilder[createUser, string](opts...)
}
