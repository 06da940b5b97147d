package operation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsChaining(t *testing.T) {
	f := MustBuilder[createUser, string]().Fields()

	got := f.Field("name").Set("John").Field("age").Set(30)

	assert.Same(t, f, got)
	assert.Equal(t, "John", f.Field("name").Get())
	assert.Equal(t, 30, f.Get("age"))
	assert.Equal(t, "name", f.Field("name").Name())
}

func TestFieldsNestedValuesPassThrough(t *testing.T) {
	f := MustBuilder[listUsers, []string]().Fields()
	nested := map[string]any{"team": "core", "email": "a@b.co"}

	f.Field("filter").Set(nested)

	assert.Equal(t, nested, f.Get("filter"))
	op, err := f.Build()
	require.NoError(t, err)
	assert.Equal(t, filter{Team: "core", Email: "a@b.co"}, op.Filter)
}

func TestFieldsClear(t *testing.T) {
	f := MustBuilder[listUsers, []string]().Fields()
	f.Set("limit", 5).Set("offset", 3)

	assert.Same(t, f, f.Clear())
	assert.Equal(t, 20, f.Get("limit"))
	assert.Nil(t, f.Get("offset"))
	assert.NotNil(t, f.Builder())
}

func TestAccessorCall(t *testing.T) {
	f := MustBuilder[createUser, string]().Fields()

	t.Run("one argument writes", func(t *testing.T) {
		got, err := f.Field("name").Call("John")
		require.NoError(t, err)
		assert.Same(t, f, got)
	})

	t.Run("no arguments reads", func(t *testing.T) {
		got, err := f.Field("name").Call()
		require.NoError(t, err)
		assert.Equal(t, "John", got)
	})

	t.Run("more than one argument is rejected", func(t *testing.T) {
		_, err := f.Field("name").Call("a", "b")
		require.ErrorIs(t, err, ErrTooManyArguments)
		assert.Equal(t, "John", f.Get("name"))
	})
}

func TestFieldsInvoke(t *testing.T) {
	ctx := context.Background()
	logger := &recordingLogger{}
	b := newCreateUserBuilder(func(_ context.Context, op createUser) (string, error) {
		return "id-" + op.Name, nil
	}, logger)
	f := b.Fields()

	tests := []struct {
		name    string
		call    string
		args    []any
		want    any
		wantErr error
	}{
		{name: "field write returns proxy", call: "name", args: []any{"John"}, want: f},
		{name: "field read", call: "name", want: "John"},
		{name: "unknown field reads nil", call: "nickname", want: nil},
		{name: "set method", call: "set", args: []any{"age", 41}, want: f},
		{name: "get method", call: "get", args: []any{"age"}, want: 41},
		{name: "snapshot", call: "snapshot", want: map[string]any{"name": "John", "age": 41}},
		{name: "build", call: "build", want: createUser{Name: "John", Age: 41}},
		{name: "execute", call: "execute", want: "id-John"},
		{name: "get without key", call: "get", wantErr: ErrInvalidArguments},
		{name: "get with non string key", call: "get", args: []any{1}, wantErr: ErrInvalidArguments},
		{name: "set with one argument", call: "set", args: []any{"age"}, wantErr: ErrInvalidArguments},
		{name: "set with non string key", call: "set", args: []any{1, 2}, wantErr: ErrInvalidArguments},
		{name: "field with two arguments", call: "name", args: []any{"a", "b"}, wantErr: ErrTooManyArguments},
		{name: "clear returns proxy", call: "clear", want: f},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Invoke(ctx, tt.call, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if proxy, ok := tt.want.(*Fields[createUser, string]); ok {
				assert.Same(t, proxy, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, logger.successes, 1)
	assert.Empty(t, f.Builder().Snapshot())
}

func TestFieldsExecuteFailure(t *testing.T) {
	logger := &recordingLogger{}
	f := newCreateUserBuilder(func(context.Context, createUser) (string, error) {
		return "unused", nil
	}, logger).Fields()

	_, err := f.Execute(context.Background())

	assert.True(t, HasCode(err, CodeInvalidCommand))
	require.Len(t, logger.failures, 1)
}
