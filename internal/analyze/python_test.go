package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzePython(t *testing.T, src string) *Result {
	t.Helper()
	res, err := NewRegistry().For("test.py").Analyze("test.py", []byte(src))
	require.NoError(t, err)
	return res
}

func TestPython_FunctionsAndComplexity(t *testing.T) {
	res := analyzePython(t, `
def one():
    pass

def two():
    pass

class Thing:
    def a(self):
        pass

    def b(self):
        pass

    def c(self):
        pass
`)
	assert.Equal(t, "python", res.Language)
	assert.ElementsMatch(t, []string{"one", "two"}, res.Functions)
	require.Contains(t, res.Classes, "Thing")
	assert.Equal(t, []string{"a", "b", "c"}, res.Classes["Thing"].Methods)
	assert.Equal(t, 5, res.Complexity, "2 functions + 3 methods")
}

func TestPython_NestedFunctionsRecorded(t *testing.T) {
	res := analyzePython(t, `
def outer():
    def inner():
        pass
    return inner
`)
	assert.ElementsMatch(t, []string{"outer", "inner"}, res.Functions)
}

func TestPython_ClassDocstringAndBases(t *testing.T) {
	res := analyzePython(t, `
class Worker(base.jobs.Runner, Mixin, make_base()):
    """Runs queued jobs."""

    def run(self):
        pass
`)
	require.Contains(t, res.Classes, "Worker")
	ci := res.Classes["Worker"]
	assert.Equal(t, "Runs queued jobs.", ci.Docstring)

	require.Len(t, ci.BaseClasses, 3)
	require.NotNil(t, ci.BaseClasses[0])
	assert.Equal(t, "base.jobs.Runner", *ci.BaseClasses[0])
	require.NotNil(t, ci.BaseClasses[1])
	assert.Equal(t, "Mixin", *ci.BaseClasses[1])
	assert.Nil(t, ci.BaseClasses[2], "call expressions resolve to the null placeholder")
}

func TestPython_MetaclassKeywordIsNotABase(t *testing.T) {
	res := analyzePython(t, `
class Meta(Base, metaclass=ABCMeta):
    pass
`)
	require.Contains(t, res.Classes, "Meta")
	ci := res.Classes["Meta"]
	require.Len(t, ci.BaseClasses, 1)
	require.NotNil(t, ci.BaseClasses[0])
	assert.Equal(t, "Base", *ci.BaseClasses[0])
}

func TestPython_RouteWithMethodsKeyword(t *testing.T) {
	res := analyzePython(t, `
@app.route("/foo", methods=["GET", "POST"])
def foo():
    pass
`)
	require.Len(t, res.Routes, 2)
	assert.Equal(t, Route{Function: "foo", Method: "GET", Path: "/foo"}, res.Routes[0])
	assert.Equal(t, Route{Function: "foo", Method: "POST", Path: "/foo"}, res.Routes[1])
}

func TestPython_RouteDefaultMethodIsVerbUppercased(t *testing.T) {
	res := analyzePython(t, `
@router.get("/items")
def list_items():
    pass
`)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, Route{Function: "list_items", Method: "GET", Path: "/items"}, res.Routes[0])
}

func TestPython_RouteDefaultPathSentinel(t *testing.T) {
	res := analyzePython(t, `
@app.post()
def create():
    pass
`)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, UnknownPath, res.Routes[0].Path)
	assert.Equal(t, "POST", res.Routes[0].Method)
}

func TestPython_NonCallDecoratorIgnored(t *testing.T) {
	res := analyzePython(t, `
@staticmethod
def helper():
    pass

@app.get
def not_a_call():
    pass
`)
	assert.Empty(t, res.Routes)
}

func TestPython_NonVerbDecoratorIgnored(t *testing.T) {
	res := analyzePython(t, `
@functools.lru_cache(maxsize=None)
def cached():
    pass
`)
	assert.Empty(t, res.Routes)
}

func TestPython_DecoratedMethodCountsAsMethod(t *testing.T) {
	res := analyzePython(t, `
class Service:
    @property
    def value(self):
        return 1
`)
	require.Contains(t, res.Classes, "Service")
	assert.Equal(t, []string{"value"}, res.Classes["Service"].Methods)
	assert.Empty(t, res.Functions)
	assert.Equal(t, 1, res.Complexity)
}

func TestPython_EmptyFile(t *testing.T) {
	res := analyzePython(t, "")
	assert.Empty(t, res.Functions)
	assert.Empty(t, res.Classes)
	assert.Empty(t, res.Routes)
	assert.Equal(t, 0, res.Complexity)
}
