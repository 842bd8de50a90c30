/*Package flrw computes the background expansion and linear growth history
of a Friedmann-Lemaitre-Robertson-Walker universe.

The entry point is the background package: background.Solve takes a set of
density parameters plus a dark-energy equation of state and returns a
family of continuous interpolants over redshift, including the inverse
mapping from comoving distance back to redshift. The math subpackages
supply the numerical machinery: interpolate (splines), quad (adaptive
Gauss-Kronrod quadrature), ode (embedded adaptive Runge-Kutta) and calc
(finite differences).
*/
package flrw
