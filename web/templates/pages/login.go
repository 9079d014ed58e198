package pages

import (
	"github.com/nfrund/loginpage/internal/view/dto/auth"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Paths used by the login page.
const (
	LoginPath          = "/login"
	ForgotPasswordPath = "/forgot-password"
	loginFormID        = "login-form"
)

// LoginContent is the login page body.
func LoginContent(data auth.LoginData) cmp.Node {
	return g.Div(
		g.Class("login-container"),
		g.H2(cmp.Text("Login to Your Account")),
		LoginForm(data),
	)
}

// LoginForm is the form fragment. htmx swaps it in place after a submit;
// without JavaScript it posts normally.
func LoginForm(data auth.LoginData) cmp.Node {
	return cmp.El("form",
		g.ID(loginFormID),
		g.Method("post"),
		g.Action(LoginPath),
		hx.Post(LoginPath),
		hx.Target("this"),
		hx.Swap("outerHTML"),

		cmp.El("label", cmp.Attr("for", "email"), cmp.Text("Email:")),
		g.Input(
			g.ID("email"),
			g.Name("email"),
			g.Type("email"),
			g.Placeholder("Enter your email"),
			g.Value(data.Email),
		),

		cmp.El("label", cmp.Attr("for", "password"), cmp.Text("Password:")),
		g.Input(
			g.ID("password"),
			g.Name("password"),
			g.Type("password"),
			g.Placeholder("Enter your password"),
		),

		g.Div(
			g.Class("options"),
			cmp.El("label",
				g.Input(
					g.Name("remember_me"),
					g.Type("checkbox"),
					g.Value("true"),
					cmp.If(data.RememberMe, g.Checked()),
				),
				cmp.Text("Remember Me"),
			),
			g.A(g.Href(ForgotPasswordPath), cmp.Text("Forgot Password?")),
		),

		g.Button(g.Type("submit"), cmp.Text("Login")),
		cmp.If(data.StatusMessage != "", statusLine(data)),
	)
}

func statusLine(data auth.LoginData) cmp.Node {
	class := "error"
	if data.Success {
		class = "error success"
	}
	return g.P(g.Class(class), g.Role("status"), cmp.Text(data.StatusMessage))
}
