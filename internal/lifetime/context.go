package lifetime

// Context tracks every lifetime variable created during inference, the
// constraints collected against them, and the resolved substitution map
// Solve writes into (§3.5; grounded on rv-lifetime's LifetimeContext).
type Context struct {
	vars        []Lifetime
	constraints []Constraint
	subst       map[Id]Lifetime
	nextID      uint32
}

// NewContext creates an empty lifetime Context.
func NewContext() *Context {
	return &Context{subst: make(map[Id]Lifetime)}
}

// Fresh mints a new inference variable and records it among Vars().
func (c *Context) Fresh() Lifetime {
	c.nextID++
	id := Id(c.nextID)
	l := Inferred(id)
	c.vars = append(c.vars, l)
	return l
}

// AddConstraint records a constraint to be checked by Solve.
func (c *Context) AddConstraint(con Constraint) {
	c.constraints = append(c.constraints, con)
}

// Constraints returns every constraint collected so far.
func (c *Context) Constraints() []Constraint { return c.constraints }

// Vars returns every lifetime variable minted so far.
func (c *Context) Vars() []Lifetime { return c.vars }

// Lookup returns the substitution recorded for id, if any.
func (c *Context) Lookup(id Id) (Lifetime, bool) {
	l, ok := c.subst[id]
	return l, ok
}

// Record stores the solution for a lifetime id.
func (c *Context) Record(id Id, l Lifetime) { c.subst[id] = l }

// NumVars returns the number of lifetime variables created.
func (c *Context) NumVars() int { return len(c.vars) }

// NumConstraints returns the number of constraints collected.
func (c *Context) NumConstraints() int { return len(c.constraints) }
