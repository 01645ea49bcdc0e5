/*
Package resilience provides a circuit breaker.

The desktop puts one in front of each session's lock screen: repeated wrong
passwords open the breaker and further unlock attempts are rejected until
the cooldown passes. Only errors selected by Settings.IsFailure count, so a
form submitted with an empty field does not.

	breaker := resilience.New("unlock", resilience.Settings{
		MaxFailures: 5,
		Cooldown:    30 * time.Second,
		IsFailure: func(err error) bool {
			return errors.Is(err, ErrInvalidCredentials)
		},
	})

	err := breaker.Execute(func() error {
		return auth.Verify(username, password)
	})

# States

	Closed --[MaxFailures]-> Open --[Cooldown]-> Half-Open --[success]-> Closed
	                                                |
	                                            [failure]
	                                                |
	                                                v
	                                               Open
*/
package resilience
