package main

// OutsideMenu is the unauthenticated screen. It only knows how to create
// sessions: login, register, and the source viewer.
type OutsideMenu struct {
	client *Client
}

const banner = `/----------------------------\
|                            |
|    Welcome to Multichat    |
|   ======================   |
|        Go Edition          |
|                            |
\----------------------------/`

const termsOfService = `/----------------------------\
|      TERMS OF SERVICE      |
|  ========================  |
|  By registering with this  |
|  service, you agree to be  |
|  bound by these principle  |
|  requirements until death  |
|  or the end of the world:  |
|                            |
|  1. This service is being  |
|  provided to you for free  |
|  and must remain free for  |
|  these terms to continue.  |
|                            |
|  2. Administrators should  |
|  be held faultless in all  |
|  they do except promoting  |
|  falsehood and deception.  |
|                            |
|  3. The account given you  |
|  will remain the property  |
|  of the issuer and may be  |
|  removed without warning.  |
|                            |
|  4. You give up all legal  |
|  rights, privacy of data,  |
|  and demands for fairness  |
|  while using this system.  |
|                            |
|  5. Your terms of service  |
|  will remain in effect if  |
|  you lose possession over  |
|  an account you received.  |
\----------------------------/`

func (m *OutsideMenu) Handle() (Handler, error) {
	if err := m.client.Conn.Print(banner); err != nil {
		return nil, err
	}
	return m.commands().loop("")
}

func (m *OutsideMenu) commands() *commandSet {
	set := newCommandSet(m.client)

	set.add("login", "Login to the server to access your account.", m.doLogin)
	set.add("register", "Register for an account using this command.",
		m.doRegister)
	set.add("open_source", "Display the source code for this program.",
		m.doOpenSource)

	return set
}

// loginAccount completes a successful authentication: marks the account
// online, binds the session both ways, and pushes the inside menu.
func (m *OutsideMenu) loginAccount(name string,
	account *Account) (Handler, error) {
	if !account.login(m.client) {
		return nil, m.client.Conn.Print("Account is already logged in!")
	}
	m.client.bindAccount(name, account)
	m.client.Server.Metrics.LoginsTotal.Inc()
	m.client.Server.log.Info().Msgf("Client %s: logged in as %s", m.client,
		name)
	return &InsideMenu{client: m.client}, nil
}

func (m *OutsideMenu) doLogin(args []string) (Handler, error) {
	conn := m.client.Conn

	name, err := getName(m.client, args, "Username:")
	if err != nil {
		return nil, err
	}
	var word string
	if len(args) > 1 {
		word = args[1]
	} else {
		word, err = conn.Input("Password:")
		if err != nil {
			return nil, err
		}
	}

	account := m.client.Server.Accounts.Lookup(name)
	if account == nil || !account.CheckPassword(word) {
		return nil, conn.Print("Authentication failed!")
	}
	return m.loginAccount(name, account)
}

func (m *OutsideMenu) doRegister(args []string) (Handler, error) {
	conn := m.client.Conn

	agreed, err := m.checkTermsOfService()
	if err != nil {
		return nil, err
	}
	if !agreed {
		return nil, errPop
	}

	name, err := getName(m.client, args, "Username:")
	if err != nil {
		return nil, err
	}
	if name == "" || hasWhitespace(name) {
		return nil, conn.Print("Username may not have whitespace!")
	}

	var word string
	if len(args) > 1 {
		word = args[1]
	} else {
		word, err = conn.Input("Password:")
		if err != nil {
			return nil, err
		}
	}
	if word == "" || hasWhitespace(word) {
		return nil, conn.Print("Password may not have whitespace!")
	}

	account, ok := m.client.Server.Accounts.Register(name, word)
	if !ok {
		return nil, conn.Print("Account already exists!")
	}
	return m.loginAccount(name, account)
}

func (m *OutsideMenu) checkTermsOfService() (bool, error) {
	if err := m.client.Conn.Print(termsOfService); err != nil {
		return false, err
	}
	answer, err := m.client.Conn.Input("Do you agree?")
	if err != nil {
		return false, err
	}
	return yes(answer), nil
}

// doOpenSource exists for parity with the historical client expectations.
// The server no longer ships its own source, so it only explains where to
// find it.
func (m *OutsideMenu) doOpenSource(args []string) (Handler, error) {
	show := len(args) > 0 && args[0] == "show"
	if !show {
		answer, err := m.client.Conn.Input("Are you sure?")
		if err != nil {
			return nil, err
		}
		show = yes(answer)
	}
	if !show {
		return nil, nil
	}
	return nil, m.client.Conn.Print(
		"The source is no longer bundled with the server binary.")
}
