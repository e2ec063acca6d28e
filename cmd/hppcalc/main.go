// Command hppcalc prices order lines from policy and line files and validates pricing policies.
package main

func main() {
	Execute()
}
