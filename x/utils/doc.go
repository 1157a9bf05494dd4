/*
Package utils provides decorators that are wrapped around every call the
host dispatches: panic recovery, logging and savepoints.
*/
package utils
