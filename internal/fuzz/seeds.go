package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB, ограничение для корпуса

var inlineSeeds = []string{
	"",
	"x = 1",
	"\ufeffimport os\r\ndef f(a, b=2):\r\n    return a\r\n",
	"def f(a: int, *args, **kw) -> None: pass\n",
	"@decorator(x)\nclass A(Base, metaclass=M):\n    '''doc'''\n    def m(self, x,\n          y):\n        return x \\\n            + y\n",
	"if x:\n\tdef g(): return 1\nelse:\n    pass\n",
	"s = f'{a!r:>{w}} {b}'\nt = rb'\\d' \"\"\"\nmulti\n\"\"\"\n",
	"async def h[T](x: T) -> T:\n    await x\n",
	"from . import (a,\n    b as c)\nimport d.e as f; import g\n",
	"def broken(:\n    x = '\n",
	"class C:\n  def f(self):\n      pass\n def g(self): pass\n",
	"def f(\n    a\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.py file under the packages' testdata dirs.
func addTestdataSeeds(f *testing.F) {
	root := ".."
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) != "testdata" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return src
}
