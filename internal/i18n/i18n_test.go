package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_English(t *testing.T) {
	p := Printer("")
	assert.Equal(t, "Backend endpoint 500 error", p.Sprintf(BackendCode, 500))
	assert.Equal(t, "Backend request timed out", p.Sprintf(Timeout))
}

func TestPrinter_Chinese(t *testing.T) {
	p := Printer("zh-CN")
	assert.Equal(t, "后端接口500异常", p.Sprintf(BackendCode, 500))
	assert.Equal(t, "后端接口连接异常", p.Sprintf(Network))
}

func TestPrinter_UnknownTagFallsBack(t *testing.T) {
	p := Printer("not a tag")
	assert.Equal(t, "Backend returned an empty body", p.Sprintf(EmptyBody))
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, GoodMorning, Greeting(6))
	assert.Equal(t, GoodForenoon, Greeting(10))
	assert.Equal(t, GoodNoon, Greeting(13))
	assert.Equal(t, GoodAfternoon, Greeting(15))
	assert.Equal(t, GoodEvening, Greeting(20))
}
