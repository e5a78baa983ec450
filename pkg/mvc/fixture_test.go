package mvc_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/toyz/minimvc/pkg/mvc"
)

// The types below are what mvcgen emits descriptors for; the descriptors are
// written by hand so the runtime can be tested without the generator.

type greeter interface {
	Greet(name string) string
}

type greetingService struct {
	Prefix string
}

func (s *greetingService) Greet(name string) string { return s.Prefix + name }

type greetingController struct {
	Greeter greeter

	mu    sync.Mutex
	calls []string
}

func (c *greetingController) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *greetingController) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *greetingController) Query(w http.ResponseWriter, r *http.Request, name string) {
	c.record("Query:" + name)
	_, _ = io.WriteString(w, c.Greeter.Greet(name))
}

func (c *greetingController) Add(w http.ResponseWriter, a, b int) {
	c.record("Add")
	_, _ = fmt.Fprintf(w, "%d", a+b)
}

func (c *greetingController) User(w http.ResponseWriter, id int) {
	c.record("User")
	_, _ = fmt.Fprintf(w, "user %d", id)
}

func (c *greetingController) Fail() error {
	c.record("Fail")
	return errors.New("boom")
}

func (c *greetingController) Panic() {
	c.record("Panic")
	panic("kaboom")
}

const (
	serviceType    = "app/service.GreetingService"
	controllerType = "app/controller.GreetingController"
)

func serviceDescriptor() mvc.ComponentDescriptor {
	return mvc.ComponentDescriptor{
		TypeName:   serviceType,
		Kind:       mvc.KindService,
		Implements: []string{"app/service.Greeter"},
		New: func() (any, error) {
			return &greetingService{Prefix: "Hello, "}, nil
		},
	}
}

func controllerDescriptor() mvc.ComponentDescriptor {
	return mvc.ComponentDescriptor{
		TypeName: controllerType,
		Kind:     mvc.KindController,
		Prefix:   "/demo",
		New: func() (any, error) {
			return &greetingController{}, nil
		},
		Inject: []mvc.InjectionPoint{
			{
				Field:    "Greeter",
				TypeName: "app/service.Greeter",
				Assign: func(owner, dep any) error {
					c, ok := owner.(*greetingController)
					if !ok {
						return fmt.Errorf("owner is %T", owner)
					}
					g, ok := dep.(greeter)
					if !ok {
						return fmt.Errorf("dependency is %T", dep)
					}
					c.Greeter = g
					return nil
				},
			},
		},
		Methods: []mvc.MethodDescriptor{
			{
				Name: "Query",
				Path: "query",
				Params: []mvc.ParamDescriptor{
					{Name: "w", Type: mvc.ResponseType},
					{Name: "r", Type: mvc.RequestType},
					{Name: "name", Type: "string", Binding: "name"},
				},
				Invoke: func(owner any, args mvc.Args) error {
					w, err := mvc.ArgAs[http.ResponseWriter](args, 0)
					if err != nil {
						return err
					}
					r, err := mvc.ArgAs[*http.Request](args, 1)
					if err != nil {
						return err
					}
					name, err := mvc.ArgAs[string](args, 2)
					if err != nil {
						return err
					}
					owner.(*greetingController).Query(w, r, name)
					return nil
				},
			},
			{
				Name: "Add",
				Path: "/add/",
				Params: []mvc.ParamDescriptor{
					{Name: "w", Type: mvc.ResponseType},
					{Name: "a", Type: "int", Binding: "a"},
					{Name: "b", Type: "int", Binding: "b"},
				},
				Invoke: func(owner any, args mvc.Args) error {
					w, err := mvc.ArgAs[http.ResponseWriter](args, 0)
					if err != nil {
						return err
					}
					a, err := mvc.ArgAs[int](args, 1)
					if err != nil {
						return err
					}
					b, err := mvc.ArgAs[int](args, 2)
					if err != nil {
						return err
					}
					owner.(*greetingController).Add(w, a, b)
					return nil
				},
			},
			{
				Name: "User",
				Path: "users/{id:int}",
				Params: []mvc.ParamDescriptor{
					{Name: "w", Type: mvc.ResponseType},
					{Name: "id", Type: "int", Binding: "id"},
				},
				Invoke: func(owner any, args mvc.Args) error {
					w, err := mvc.ArgAs[http.ResponseWriter](args, 0)
					if err != nil {
						return err
					}
					id, err := mvc.ArgAs[int](args, 1)
					if err != nil {
						return err
					}
					owner.(*greetingController).User(w, id)
					return nil
				},
			},
			{
				Name: "Fail",
				Path: "fail",
				Invoke: func(owner any, args mvc.Args) error {
					return owner.(*greetingController).Fail()
				},
			},
			{
				Name: "Panic",
				Path: "panic",
				Invoke: func(owner any, args mvc.Args) error {
					owner.(*greetingController).Panic()
					return nil
				},
			},
		},
	}
}

func fixtureTable() *mvc.Table {
	return mvc.MustTable(serviceDescriptor(), controllerDescriptor())
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
