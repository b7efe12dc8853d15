package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.nomake.dev/nomake/internal/core/domain"
)

func TestErrorKind_Merge(t *testing.T) {
	assert.Equal(t, domain.ErrorBuild|domain.ErrorLogical, domain.ErrorBuild.Merge(domain.ErrorLogical))
	assert.Equal(t, domain.ErrorFatal, domain.ErrorBuild.Merge(domain.ErrorFatal))
	assert.Equal(t, domain.ErrorFatal, domain.ErrorFatal.Merge(domain.ErrorNone))
	assert.Equal(t, domain.ErrorBuild, domain.ErrorNone.Merge(domain.ErrorBuild))
}

func TestErrorKind_ExitCode(t *testing.T) {
	cases := map[domain.ErrorKind]int{
		domain.ErrorNone:                         0,
		domain.ErrorFatal:                         4,
		domain.ErrorBuild | domain.ErrorLogical:   3,
		domain.ErrorLogical:                       2,
		domain.ErrorBuild:                         1,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.ExitCode(), "kind=%v", kind)
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "none", domain.ErrorNone.String())
	assert.Equal(t, "build", domain.ErrorBuild.String())
	assert.Equal(t, "logical", domain.ErrorLogical.String())
	assert.Equal(t, "fatal", domain.ErrorFatal.String())
	assert.Equal(t, "build+logical", (domain.ErrorBuild | domain.ErrorLogical).String())
}
